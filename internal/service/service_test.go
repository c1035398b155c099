package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/liquidity-service/internal/cache"
	"github.com/Dan9191/liquidity-service/internal/config"
	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/Dan9191/liquidity-service/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type memoryStore struct {
	mu           sync.Mutex
	users        []models.User
	accounts     []models.Account
	transactions []models.Transaction
	items        []models.ARAPItem
	accountReads int
}

func (m *memoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, *user)
	return nil
}

func (m *memoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), nil
}

func (m *memoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = int64(len(m.accounts) + 1)
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *memoryStore) FindAccountByID(ctx context.Context, accountID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == accountID {
			return a.UserID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (m *memoryStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = int64(len(m.transactions) + 1)
	m.transactions = append(m.transactions, *tx)
	for i := range m.accounts {
		if m.accounts[i].ID == tx.AccountID {
			m.accounts[i].Balance = m.accounts[i].Balance.Add(tx.Amount)
		}
	}
	return nil
}

func (m *memoryStore) CreateARAPItem(ctx context.Context, item *models.ARAPItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *item)
	return nil
}

func (m *memoryStore) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountReads++
	var out []models.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) ListExpenseTransactions(ctx context.Context, userID int64, since time.Time) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := make(map[int64]bool)
	for _, a := range m.accounts {
		if a.UserID == userID {
			owned[a.ID] = true
		}
	}
	var out []models.Transaction
	for _, t := range m.transactions {
		if owned[t.AccountID] && t.IsExpense() && !t.OccurredAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryStore) ListARAPItems(ctx context.Context, userID int64, kind models.ARAPKind) ([]models.ARAPItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ARAPItem
	for _, it := range m.items {
		if it.UserID == userID && it.Kind == kind {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memoryStore) reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountReads
}

func newTestService() (*Service, *memoryStore) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := &memoryStore{}
	cfg := &config.Config{JWTSecret: "test-secret", CacheTTL: time.Minute}
	return NewService(store, cache.NewMemoryCache(), log, cfg), store
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "ann", "ann@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}

	token, err := svc.Login(ctx, "ann@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Subject != "1" {
		t.Errorf("expected subject 1, got %s", claims.Subject)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Register(ctx, "ann", "ann@example.com", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(ctx, "ann2", "ann@example.com", "other"); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	svc.Register(ctx, "ann", "ann@example.com", "s3cret")

	if _, err := svc.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "bob@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRunway_CachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	account, err := svc.CreateAccount(ctx, 1, "TRY", "", decimal.NewFromInt(60000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.Runway(ctx, 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.RunwayMonths.IsInf() {
		t.Fatalf("expected infinite runway without expenses, got %v", first.RunwayMonths)
	}

	second, err := svc.Runway(ctx, 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.reads() != 1 {
		t.Errorf("expected cached result on second call, store read %d times", store.reads())
	}
	if !second.RunwayMonths.IsInf() || second.Status != first.Status {
		t.Errorf("expected cached result to match, got %+v", second)
	}

	_, err = svc.CreateTransaction(ctx, 1, account.ID, decimal.NewFromInt(-12000), "payroll", time.Now().AddDate(0, 0, -5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	third, err := svc.Runway(ctx, 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.reads() != 2 {
		t.Errorf("expected recomputation after write, store read %d times", store.reads())
	}
	if third.CurrentCash != 48000 || third.MonthlyExpenses != 2000 {
		t.Errorf("expected cash 48000 and burn 2000, got %.2f / %.2f", third.CurrentCash, third.MonthlyExpenses)
	}
	if third.Status != models.RunwayHealthy {
		t.Errorf("expected 24 months of runway to be healthy, got %s", third.Status)
	}
}

func TestCashGap_InvalidatedByNewItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	before, err := svc.CashGap(ctx, 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.RiskLevel != models.RiskLow {
		t.Errorf("expected low risk for empty book, got %s", before.RiskLevel)
	}

	_, err = svc.CreateARAPItem(ctx, 1, models.ARAPItem{Kind: models.Payable, Amount: decimal.NewFromInt(5000), AgeDays: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := svc.CashGap(ctx, 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.TotalAP != 5000 || after.RiskLevel != models.RiskHigh {
		t.Errorf("expected fresh result with AP 5000 and high risk, got %.2f / %s", after.TotalAP, after.RiskLevel)
	}
}

func TestDashboardAndForecast(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	svc.CreateAccount(ctx, 1, "TRY", "checking", decimal.NewFromInt(10000))

	d, err := svc.Dashboard(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.OverallRisk != models.RiskLow || d.Summary.NetPosition != 10000 {
		t.Errorf("unexpected dashboard: %+v", d.Summary)
	}

	forecast, err := svc.Forecast(ctx, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forecast) != 3 || forecast[2].ClosingCash != 10000 {
		t.Errorf("unexpected forecast: %+v", forecast)
	}
}

func TestCreateTransaction_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	account, _ := svc.CreateAccount(ctx, 1, "TRY", "checking", decimal.Zero)

	if _, err := svc.CreateTransaction(ctx, 2, account.ID, decimal.NewFromInt(-10), "", time.Time{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, 1, 404, decimal.NewFromInt(-10), "", time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, 1, account.ID, decimal.Zero, "", time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero amount, got %v", err)
	}
}

func TestCreateARAPItem_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.CreateARAPItem(ctx, 1, models.ARAPItem{Kind: "loan", Amount: decimal.NewFromInt(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown kind, got %v", err)
	}
	if _, err := svc.CreateARAPItem(ctx, 1, models.ARAPItem{Kind: models.Receivable, Amount: decimal.NewFromInt(-1)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative amount, got %v", err)
	}

	item, err := svc.CreateARAPItem(ctx, 1, models.ARAPItem{Kind: models.Receivable, Amount: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != "pending" || item.UserID != 1 {
		t.Errorf("expected defaults to be applied, got %+v", item)
	}
}

// pausingStore returns the first ListAccounts snapshot only after release is
// closed, so a write can commit while a read is mid-computation.
type pausingStore struct {
	*memoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *pausingStore) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	accounts, err := p.memoryStore.ListAccounts(ctx, userID)
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	return accounts, err
}

func TestRunway_WriteDuringComputeNotCached(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := &pausingStore{
		memoryStore: &memoryStore{},
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	cfg := &config.Config{JWTSecret: "test-secret", CacheTTL: time.Minute}
	svc := NewService(store, cache.NewMemoryCache(), log, cfg)

	account, err := svc.CreateAccount(ctx, 1, "TRY", "", decimal.NewFromInt(60000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type result struct {
		runway models.RunwayAnalysis
		err    error
	}
	done := make(chan result, 1)
	go func() {
		r, err := svc.Runway(ctx, 1, 12)
		done <- result{r, err}
	}()

	<-store.entered
	_, err = svc.CreateTransaction(ctx, 1, account.ID, decimal.NewFromInt(-12000), "payroll", time.Now().AddDate(0, 0, -5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(store.release)

	inFlight := <-done
	if inFlight.err != nil {
		t.Fatalf("unexpected error: %v", inFlight.err)
	}
	if inFlight.runway.CurrentCash != 60000 {
		t.Fatalf("expected in-flight read to see the pre-write balance, got %.2f", inFlight.runway.CurrentCash)
	}

	after, err := svc.Runway(ctx, 1, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.CurrentCash != 48000 || after.MonthlyExpenses != 2000 {
		t.Errorf("expected cash 48000 and burn 2000 after write, got %.2f / %.2f", after.CurrentCash, after.MonthlyExpenses)
	}
}
