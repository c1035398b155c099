package analytics

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"time"

	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu           sync.Mutex
	accounts     []models.Account
	transactions []models.Transaction
	items        []models.ARAPItem
	err          error
	since        time.Time
}

func (f *fakeGateway) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func (f *fakeGateway) ListExpenseTransactions(ctx context.Context, userID int64, since time.Time) ([]models.Transaction, error) {
	f.mu.Lock()
	f.since = since
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, t := range f.transactions {
		if !t.OccurredAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListARAPItems(ctx context.Context, userID int64, kind models.ARAPKind) ([]models.ARAPItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ARAPItem
	for _, it := range f.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out, nil
}

func newTestEngine(gw Gateway) *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := NewEngine(gw, log)
	e.now = func() time.Time { return fixedNow }
	return e
}

func account(balance string, currency string) models.Account {
	return models.Account{Balance: decimal.RequireFromString(balance), Currency: currency, Type: "checking"}
}

func expense(amount int64, at time.Time) models.Transaction {
	return models.Transaction{Amount: decimal.NewFromInt(amount), OccurredAt: at}
}

func item(kind models.ARAPKind, amount int64, ageDays int) models.ARAPItem {
	return models.ARAPItem{Kind: kind, Amount: decimal.NewFromInt(amount), AgeDays: ageDays, Status: "pending"}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

var errStore = errors.New("store unreachable")
