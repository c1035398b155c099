package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/liquidity-service/internal/analytics"
	"github.com/Dan9191/liquidity-service/internal/cache"
	"github.com/Dan9191/liquidity-service/internal/config"
	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/Dan9191/liquidity-service/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("account does not belong to user")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// Store is the persistence the service depends on
type Store interface {
	analytics.Gateway
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByID(ctx context.Context, accountID int64) (int64, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	CreateARAPItem(ctx context.Context, item *models.ARAPItem) error
}

// Service handles business logic
type Service struct {
	repo   Store
	cache  cache.Cache
	engine *analytics.Engine
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo Store, c cache.Cache, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		cache:  c,
		engine: analytics.NewEngine(repo, log),
		log:    log,
		config: cfg,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// ListUsers returns every user that can receive alerts
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateAccount creates a new account for the user
func (s *Service) CreateAccount(ctx context.Context, userID int64, currency, accountType string, balance decimal.Decimal) (*models.Account, error) {
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}
	if accountType == "" {
		accountType = "checking"
	}

	account := &models.Account{
		UserID:   userID,
		Balance:  balance,
		Currency: currency,
		Type:     accountType,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.log.Infof("Account created for user %d: %s", userID, account.Currency)
	return account, nil
}

// CreateTransaction records a transaction on one of the user's accounts
func (s *Service) CreateTransaction(ctx context.Context, userID, accountID int64, amount decimal.Decimal, description string, occurredAt time.Time) (*models.Transaction, error) {
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must not be zero", ErrInvalidInput)
	}

	owner, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return nil, err
	}
	if owner != userID {
		return nil, ErrForbidden
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	tx := &models.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		OccurredAt:  occurredAt,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.log.Infof("Transaction %d recorded on account %d: %s", tx.ID, accountID, amount)
	return tx, nil
}

// CreateARAPItem records a receivable or payable for the user
func (s *Service) CreateARAPItem(ctx context.Context, userID int64, item models.ARAPItem) (*models.ARAPItem, error) {
	if !item.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be receivable or payable", ErrInvalidInput)
	}
	if item.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if item.Status == "" {
		item.Status = "pending"
	}
	item.UserID = userID

	if err := s.repo.CreateARAPItem(ctx, &item); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.log.Infof("%s %d recorded for user %d", item.Kind, item.ID, userID)
	return &item, nil
}

// Runway returns the user's runway analysis
func (s *Service) Runway(ctx context.Context, userID int64, months int) (models.RunwayAnalysis, error) {
	return cached(ctx, s, userID, fmt.Sprintf("runway:%d", months), func() (models.RunwayAnalysis, error) {
		return s.engine.Runway(ctx, userID, months)
	})
}

// CashGap returns the user's cash-gap analysis
func (s *Service) CashGap(ctx context.Context, userID int64, months int) (models.CashGapAnalysis, error) {
	return cached(ctx, s, userID, fmt.Sprintf("cashgap:%d", months), func() (models.CashGapAnalysis, error) {
		return s.engine.CashGap(ctx, userID, months)
	})
}

// Dashboard returns the combined liquidity dashboard
func (s *Service) Dashboard(ctx context.Context, userID int64) (models.CombinedDashboard, error) {
	return cached(ctx, s, userID, "dashboard", func() (models.CombinedDashboard, error) {
		return s.engine.Dashboard(ctx, userID)
	})
}

// Forecast returns the user's cash-flow forecast
func (s *Service) Forecast(ctx context.Context, userID int64, months int) ([]models.ForecastMonth, error) {
	return cached(ctx, s, userID, fmt.Sprintf("forecast:%d", months), func() ([]models.ForecastMonth, error) {
		return s.engine.Forecast(ctx, userID, months)
	})
}
