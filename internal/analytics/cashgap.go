package analytics

import (
	"context"
	"fmt"

	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CashGap aggregates a user's receivables and payables into aging buckets,
// rates the gap and builds a timeline of horizonMonths 30-day periods.
func (e *Engine) CashGap(ctx context.Context, userID int64, horizonMonths int) (models.CashGapAnalysis, error) {
	horizon := clampHorizon(horizonMonths)

	var receivables, payables []models.ARAPItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receivables, err = e.gw.ListARAPItems(gctx, userID, models.Receivable)
		if err != nil {
			return fmt.Errorf("failed to list receivables: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		payables, err = e.gw.ListARAPItems(gctx, userID, models.Payable)
		if err != nil {
			return fmt.Errorf("failed to list payables: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.CashGapAnalysis{}, err
	}

	totalAR := sumWhere(receivables, func(int) bool { return true })
	totalAP := sumWhere(payables, func(int) bool { return true })
	ar30 := sumWhere(receivables, dueWithin(NearBucketDays))
	ar60 := sumWhere(receivables, dueWithin(FarBucketDays))
	ap30 := sumWhere(payables, dueWithin(NearBucketDays))
	ap60 := sumWhere(payables, dueWithin(FarBucketDays))
	gap := totalAR.Sub(totalAP)

	cashGap := gap.InexactFloat64()
	risk := ClassifyGapRisk(cashGap, totalAR.InexactFloat64(), totalAP.InexactFloat64())

	timeline := make([]models.GapPeriod, 0, horizon)
	cumulative := decimal.Zero
	for i := 0; i < horizon; i++ {
		start, end := i*TimelinePeriodDays, (i+1)*TimelinePeriodDays
		inPeriod := func(age int) bool { return age > start && age <= end }
		ar := sumWhere(receivables, inPeriod)
		ap := sumWhere(payables, inPeriod)
		net := ar.Sub(ap)
		cumulative = cumulative.Add(net)
		timeline = append(timeline, models.GapPeriod{
			Period:         fmt.Sprintf("%d-%d %s", start+1, end, periodUnit),
			ARAmount:       ar.InexactFloat64(),
			APAmount:       ap.InexactFloat64(),
			NetCashFlow:    net.InexactFloat64(),
			CumulativeCash: cumulative.InexactFloat64(),
		})
	}

	e.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"horizon":  horizon,
		"cash_gap": cashGap,
		"risk":     risk,
	}).Debug("cash gap computed")

	return models.CashGapAnalysis{
		TotalAR:         totalAR.InexactFloat64(),
		TotalAP:         totalAP.InexactFloat64(),
		CashGap:         cashGap,
		ARDueIn30Days:   ar30.InexactFloat64(),
		ARDueIn60Days:   ar60.InexactFloat64(),
		APDueIn30Days:   ap30.InexactFloat64(),
		APDueIn60Days:   ap60.InexactFloat64(),
		NetGap30Days:    ar30.Sub(ap30).InexactFloat64(),
		NetGap60Days:    ar60.Sub(ap60).InexactFloat64(),
		RiskLevel:       risk,
		Recommendations: cashGapRecommendations(cashGap, risk),
		Timeline:        timeline,
	}, nil
}

func dueWithin(days int) func(int) bool {
	return func(age int) bool { return age <= days }
}

func sumWhere(items []models.ARAPItem, match func(ageDays int) bool) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if match(it.AgeDays) {
			total = total.Add(it.Amount)
		}
	}
	return total
}
