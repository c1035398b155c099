package analytics

import "github.com/Dan9191/liquidity-service/internal/models"

var (
	recUrgentCashNeed = models.Recommendation{
		Code:    "urgent-cash-need",
		Message: "Urgent cash need: secure additional funding immediately.",
	}
	recCreditLine = models.Recommendation{
		Code:    "credit-line-evaluation",
		Message: "Evaluate a credit line to bridge the shortfall.",
	}
	recReceivablesAcceleration = models.Recommendation{
		Code:    "receivables-acceleration",
		Message: "Accelerate collection of outstanding receivables.",
	}
	recMonitorClosely = models.Recommendation{
		Code:    "monitor-closely",
		Message: "Monitor the cash position closely every week.",
	}
	recRevenueGrowth = models.Recommendation{
		Code:    "revenue-growth",
		Message: "Focus on growing revenue to extend the runway.",
	}
	recExpenseReview = models.Recommendation{
		Code:    "expense-review",
		Message: "Review recurring expenses for savings.",
	}
	recPositionSound = models.Recommendation{
		Code:    "position-is-sound",
		Message: "Cash position is sound.",
	}
	recInvestmentOpportunity = models.Recommendation{
		Code:    "investment-opportunity",
		Message: "Consider putting surplus cash to work in low-risk investments.",
	}

	recAccelerateCollections = models.Recommendation{
		Code:    "accelerate-collections",
		Message: "Accelerate collections from customers.",
	}
	recReviewPaymentPlans = models.Recommendation{
		Code:    "review-payment-plans",
		Message: "Review payment plans with suppliers.",
	}
	recCollectionDiscipline = models.Recommendation{
		Code:    "maintain-collection-discipline",
		Message: "Receivables cover payables; keep up collection discipline.",
	}
	recPrioritizeCash = models.Recommendation{
		Code:    "prioritize-cash-management",
		Message: "Make cash management the top priority.",
	}
	recShortTermFinancing = models.Recommendation{
		Code:    "short-term-financing",
		Message: "Arrange short-term financing for upcoming payables.",
	}
)

func runwayRecommendations(status models.RunwayStatus) []models.Recommendation {
	switch status {
	case models.RunwayCritical:
		return []models.Recommendation{recUrgentCashNeed, recCreditLine, recReceivablesAcceleration}
	case models.RunwayWarning:
		return []models.Recommendation{recMonitorClosely, recRevenueGrowth, recExpenseReview}
	default:
		return []models.Recommendation{recPositionSound, recInvestmentOpportunity}
	}
}

func cashGapRecommendations(cashGap float64, risk models.RiskLevel) []models.Recommendation {
	recs := []models.Recommendation{}
	if cashGap < 0 {
		recs = append(recs, recUrgentCashNeed, recAccelerateCollections, recReviewPaymentPlans)
	} else if cashGap > 0 {
		recs = append(recs, recCollectionDiscipline)
	}
	if risk == models.RiskCritical || risk == models.RiskHigh {
		recs = append(recs, recPrioritizeCash, recShortTermFinancing)
	}
	return recs
}
