package handler

import (
	"net/http"

	"github.com/Dan9191/liquidity-service/internal/config"
	"github.com/Dan9191/liquidity-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the handlers to their routes
func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))

	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	authRouter.HandleFunc("/arap-items", h.CreateARAPItem).Methods(http.MethodPost)

	liquidity := authRouter.PathPrefix("/liquidity").Subrouter()
	liquidity.HandleFunc("/runway", h.Runway).Methods(http.MethodGet)
	liquidity.HandleFunc("/cash-gap", h.CashGap).Methods(http.MethodGet)
	liquidity.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	liquidity.HandleFunc("/forecast", h.Forecast).Methods(http.MethodGet)

	return r
}
