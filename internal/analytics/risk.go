package analytics

import "github.com/Dan9191/liquidity-service/internal/models"

// ClassifyGapRisk maps a receivables/payables position to a risk level.
// A user with no receivables and no payables at all is low risk, while a
// balanced non-empty book (cashGap == 0) is medium.
func ClassifyGapRisk(cashGap, totalAR, totalAP float64) models.RiskLevel {
	if totalAR == 0 && totalAP == 0 {
		return models.RiskLow
	}

	if cashGap >= 0 {
		ratio := 0.0
		if totalAP != 0 {
			ratio = cashGap / totalAP
		}
		if ratio > SurplusRatioThreshold {
			return models.RiskLow
		}
		return models.RiskMedium
	}

	ratio := 1.0
	if totalAR != 0 {
		ratio = -cashGap / totalAR
	}
	switch {
	case ratio > DeficitRatioCritical:
		return models.RiskCritical
	case ratio > DeficitRatioHigh:
		return models.RiskHigh
	default:
		return models.RiskMedium
	}
}

// ClassifyRunway maps cash on hand and months of runway to a status
func ClassifyRunway(currentCash, runwayMonths float64) models.RunwayStatus {
	switch {
	case currentCash <= 0 || runwayMonths < RunwayCriticalMonths:
		return models.RunwayCritical
	case runwayMonths < RunwayWarningMonths:
		return models.RunwayWarning
	default:
		return models.RunwayHealthy
	}
}

// CombineRisk derives the overall rating from the runway status and cash-gap risk
func CombineRisk(status models.RunwayStatus, gapRisk models.RiskLevel) models.RiskLevel {
	switch {
	case status == models.RunwayCritical || gapRisk == models.RiskCritical:
		return models.RiskCritical
	case status == models.RunwayWarning || gapRisk == models.RiskHigh:
		return models.RiskHigh
	case gapRisk == models.RiskMedium:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// ConfidenceAt returns the confidence band for a zero-based forecast month index
func ConfidenceAt(index int) models.Confidence {
	switch {
	case index < HighConfidenceMonths:
		return models.ConfidenceHigh
	case index < MediumConfidenceMonths:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
