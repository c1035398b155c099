package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/liquidity-service/internal/analytics"
	"github.com/Dan9191/liquidity-service/internal/middleware"
	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/Dan9191/liquidity-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service is the application logic the handlers call into
type Service interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CreateAccount(ctx context.Context, userID int64, currency, accountType string, balance decimal.Decimal) (*models.Account, error)
	CreateTransaction(ctx context.Context, userID, accountID int64, amount decimal.Decimal, description string, occurredAt time.Time) (*models.Transaction, error)
	CreateARAPItem(ctx context.Context, userID int64, item models.ARAPItem) (*models.ARAPItem, error)
	Runway(ctx context.Context, userID int64, months int) (models.RunwayAnalysis, error)
	CashGap(ctx context.Context, userID int64, months int) (models.CashGapAnalysis, error)
	Dashboard(ctx context.Context, userID int64) (models.CombinedDashboard, error)
	Forecast(ctx context.Context, userID int64, months int) ([]models.ForecastMonth, error)
}

// KeyRateSource provides the reference credit rate
type KeyRateSource interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

type Handler struct {
	svc   Service
	rates KeyRateSource
	log   *logrus.Logger
}

func NewHandler(svc Service, rates KeyRateSource, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: rates, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountRequest struct {
	Currency string          `json:"currency"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
}

type transactionRequest struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type arapRequest struct {
	Kind         string          `json:"kind"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	AgeDays      int             `json:"age_days"`
	Status       string          `json:"status"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !h.decode(w, r, &req) {
		return
	}
	account, err := h.svc.CreateAccount(r.Context(), userID, req.Currency, req.Type, req.Balance)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// CreateTransaction handles recording a transaction
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req transactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.svc.CreateTransaction(r.Context(), userID, req.AccountID, req.Amount, req.Description, req.OccurredAt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// CreateARAPItem handles recording a receivable or payable
func (h *Handler) CreateARAPItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req arapRequest
	if !h.decode(w, r, &req) {
		return
	}
	kind, err := models.ParseARAPKind(req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.svc.CreateARAPItem(r.Context(), userID, models.ARAPItem{
		Kind:         kind,
		Counterparty: req.Counterparty,
		Amount:       req.Amount,
		AgeDays:      req.AgeDays,
		Status:       req.Status,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Runway handles GET /liquidity/runway
func (h *Handler) Runway(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	months, ok := monthsParam(w, r, analytics.DefaultRunwayHorizon)
	if !ok {
		return
	}
	result, err := h.svc.Runway(r.Context(), userID, months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CashGap handles GET /liquidity/cash-gap
func (h *Handler) CashGap(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	months, ok := monthsParam(w, r, analytics.DefaultCashGapHorizon)
	if !ok {
		return
	}
	result, err := h.svc.CashGap(r.Context(), userID, months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Dashboard handles GET /liquidity/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Forecast handles GET /liquidity/forecast
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	months, ok := monthsParam(w, r, analytics.DefaultRunwayHorizon)
	if !ok {
		return
	}
	result, err := h.svc.Forecast(r.Context(), userID, months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": months, "forecast": result})
}

// KeyRate handles GET /key-rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetKeyRate(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get key rate: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get key rate: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// monthsParam reads the months query value, falling back to def when absent
func monthsParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("months")
	if raw == "" {
		return def, true
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < analytics.MinHorizonMonths || months > analytics.MaxHorizonMonths {
		http.Error(w, fmt.Sprintf("months must be an integer between %d and %d",
			analytics.MinHorizonMonths, analytics.MaxHorizonMonths), http.StatusBadRequest)
		return 0, false
	}
	return months, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUserExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Errorf("Request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
