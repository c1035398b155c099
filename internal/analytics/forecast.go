package analytics

import (
	"context"
	"math"
	"time"

	"github.com/Dan9191/liquidity-service/internal/models"
	"golang.org/x/sync/errgroup"
)

// Forecast projects a months-long cash-flow forecast for a user. Both input
// analyses are computed concurrently with a horizon matching months.
func (e *Engine) Forecast(ctx context.Context, userID int64, months int) ([]models.ForecastMonth, error) {
	months = clampHorizon(months)

	var (
		runway models.RunwayAnalysis
		gap    models.CashGapAnalysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		runway, err = e.Runway(gctx, userID, months)
		return err
	})
	g.Go(func() error {
		var err error
		gap, err = e.CashGap(gctx, userID, months)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Project(runway, gap, months, e.now()), nil
}

// Project turns runway and cash-gap analyses into a monthly forecast. Each
// month opens with the previous month's closing cash; closing cash never
// drops below zero.
func Project(runway models.RunwayAnalysis, gap models.CashGapAnalysis, months int, now time.Time) []models.ForecastMonth {
	months = clampHorizon(months)
	forecast := make([]models.ForecastMonth, 0, months)

	opening := runway.CurrentCash
	for i := 0; i < months; i++ {
		var inflows, payables float64
		if i < len(gap.Timeline) {
			inflows = gap.Timeline[i].ARAmount
			payables = gap.Timeline[i].APAmount
		}
		outflows := runway.MonthlyExpenses + payables
		net := inflows - outflows
		closing := math.Max(0, opening+net)

		forecast = append(forecast, models.ForecastMonth{
			Month:             monthLabel(now, i+1),
			OpeningCash:       opening,
			ProjectedInflows:  inflows,
			ProjectedOutflows: outflows,
			NetCashFlow:       net,
			ClosingCash:       closing,
			Confidence:        ConfidenceAt(i),
		})
		opening = closing
	}
	return forecast
}
