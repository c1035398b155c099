package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runway derives the current cash position and trailing burn rate for a user and
// projects a pure-depletion schedule of horizonMonths entries.
func (e *Engine) Runway(ctx context.Context, userID int64, horizonMonths int) (models.RunwayAnalysis, error) {
	horizon := clampHorizon(horizonMonths)
	now := e.now()
	since := now.AddDate(0, -TrailingExpenseMonths, 0)

	var (
		accounts     []models.Account
		transactions []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = e.gw.ListAccounts(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = e.gw.ListExpenseTransactions(gctx, userID, since)
		if err != nil {
			return fmt.Errorf("failed to list expense transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.RunwayAnalysis{}, err
	}

	// Balances are summed at face value regardless of currency.
	cash := decimal.Zero
	for _, a := range accounts {
		cash = cash.Add(a.Balance)
	}

	spent := decimal.Zero
	for _, t := range transactions {
		if !t.IsExpense() || t.OccurredAt.Before(since) {
			continue
		}
		spent = spent.Add(t.Amount.Abs())
	}

	currentCash := cash.InexactFloat64()
	monthlyExpenses := spent.Div(decimal.NewFromInt(TrailingExpenseMonths)).InexactFloat64()

	var runwayMonths float64
	switch {
	case currentCash <= 0:
		runwayMonths = 0
	case monthlyExpenses > 0:
		runwayMonths = currentCash / monthlyExpenses
	default:
		runwayMonths = math.Inf(1)
	}
	status := ClassifyRunway(currentCash, runwayMonths)

	breakdown := make([]models.MonthlyCash, 0, horizon)
	running := currentCash
	for i := 1; i <= horizon; i++ {
		running -= monthlyExpenses
		breakdown = append(breakdown, models.MonthlyCash{
			Month:         monthLabel(now, i),
			ProjectedCash: math.Max(0, running),
			Expenses:      monthlyExpenses,
			NetCash:       -monthlyExpenses,
		})
	}

	e.log.WithFields(logrus.Fields{
		"user_id":          userID,
		"horizon":          horizon,
		"current_cash":     currentCash,
		"monthly_expenses": monthlyExpenses,
		"status":           status,
	}).Debug("runway computed")

	return models.RunwayAnalysis{
		CurrentCash:      currentCash,
		MonthlyExpenses:  monthlyExpenses,
		RunwayMonths:     models.Unbounded(runwayMonths),
		RunwayDays:       models.Unbounded(runwayMonths * DaysPerMonth),
		Status:           status,
		Recommendations:  runwayRecommendations(status),
		MonthlyBreakdown: breakdown,
	}, nil
}
