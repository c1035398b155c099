package analytics

import (
	"context"

	"github.com/Dan9191/liquidity-service/internal/models"
	"golang.org/x/sync/errgroup"
)

// Dashboard runs the runway and cash-gap analyses concurrently with their
// default horizons and combines them.
func (e *Engine) Dashboard(ctx context.Context, userID int64) (models.CombinedDashboard, error) {
	var (
		runway models.RunwayAnalysis
		gap    models.CashGapAnalysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		runway, err = e.Runway(gctx, userID, DefaultRunwayHorizon)
		return err
	})
	g.Go(func() error {
		var err error
		gap, err = e.CashGap(gctx, userID, DefaultCashGapHorizon)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.CombinedDashboard{}, err
	}
	return Combine(runway, gap), nil
}

// Combine builds the dashboard from already computed analyses
func Combine(runway models.RunwayAnalysis, gap models.CashGapAnalysis) models.CombinedDashboard {
	return models.CombinedDashboard{
		Runway:      runway,
		CashGap:     gap,
		OverallRisk: CombineRisk(runway.Status, gap.RiskLevel),
		Summary: models.DashboardSummary{
			TotalCash:     runway.CurrentCash,
			TotalAR:       gap.TotalAR,
			TotalAP:       gap.TotalAP,
			NetPosition:   runway.CurrentCash + gap.TotalAR - gap.TotalAP,
			RunwayStatus:  runway.Status,
			CashGapStatus: gap.RiskLevel,
		},
	}
}
