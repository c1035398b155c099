package models

import (
	"encoding/json"
	"math"
)

// RunwayStatus classifies how long current cash lasts
type RunwayStatus string

const (
	RunwayCritical RunwayStatus = "critical"
	RunwayWarning  RunwayStatus = "warning"
	RunwayHealthy  RunwayStatus = "healthy"
)

// RiskLevel is an ordinal liquidity risk rating
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Confidence is the reliability label of a forecast month
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Unbounded is a quantity that may be +Inf. It encodes to JSON null when infinite.
type Unbounded float64

// IsInf reports whether the value is +Inf
func (u Unbounded) IsInf() bool {
	return math.IsInf(float64(u), 1)
}

// MarshalJSON implements json.Marshaler
func (u Unbounded) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(u), 0) || math.IsNaN(float64(u)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(u))
}

// UnmarshalJSON implements json.Unmarshaler
func (u *Unbounded) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = Unbounded(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*u = Unbounded(f)
	return nil
}

// Recommendation is a fixed advisory message identified by Code
type Recommendation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MonthlyCash is one month of the runway depletion schedule
type MonthlyCash struct {
	Month         string  `json:"month"`
	ProjectedCash float64 `json:"projected_cash"`
	Expenses      float64 `json:"expenses"`
	NetCash       float64 `json:"net_cash"`
}

// RunwayAnalysis represents how long current cash sustains the trailing burn rate
type RunwayAnalysis struct {
	CurrentCash      float64          `json:"current_cash"`
	MonthlyExpenses  float64          `json:"monthly_expenses"`
	RunwayMonths     Unbounded        `json:"runway_months"`
	RunwayDays       Unbounded        `json:"runway_days"`
	Status           RunwayStatus     `json:"status"`
	Recommendations  []Recommendation `json:"recommendations"`
	MonthlyBreakdown []MonthlyCash    `json:"monthly_breakdown"`
}

// GapPeriod is one 30-day window of the cash-gap timeline
type GapPeriod struct {
	Period         string  `json:"period"`
	ARAmount       float64 `json:"ar_amount"`
	APAmount       float64 `json:"ap_amount"`
	NetCashFlow    float64 `json:"net_cash_flow"`
	CumulativeCash float64 `json:"cumulative_cash"`
}

// CashGapAnalysis represents the receivables/payables timing gap
type CashGapAnalysis struct {
	TotalAR         float64          `json:"total_ar"`
	TotalAP         float64          `json:"total_ap"`
	CashGap         float64          `json:"cash_gap"`
	ARDueIn30Days   float64          `json:"ar_due_in_30_days"`
	ARDueIn60Days   float64          `json:"ar_due_in_60_days"`
	APDueIn30Days   float64          `json:"ap_due_in_30_days"`
	APDueIn60Days   float64          `json:"ap_due_in_60_days"`
	NetGap30Days    float64          `json:"net_gap_30_days"`
	NetGap60Days    float64          `json:"net_gap_60_days"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	Recommendations []Recommendation `json:"recommendations"`
	Timeline        []GapPeriod      `json:"timeline"`
}

// DashboardSummary condenses the combined liquidity position
type DashboardSummary struct {
	TotalCash     float64      `json:"total_cash"`
	TotalAR       float64      `json:"total_ar"`
	TotalAP       float64      `json:"total_ap"`
	NetPosition   float64      `json:"net_position"`
	RunwayStatus  RunwayStatus `json:"runway_status"`
	CashGapStatus RiskLevel    `json:"cash_gap_status"`
}

// CombinedDashboard represents runway and cash gap with an overall rating
type CombinedDashboard struct {
	Runway      RunwayAnalysis   `json:"runway"`
	CashGap     CashGapAnalysis  `json:"cash_gap"`
	OverallRisk RiskLevel        `json:"overall_risk"`
	Summary     DashboardSummary `json:"summary"`
}

// ForecastMonth represents one month of the cash-flow forecast
type ForecastMonth struct {
	Month             string     `json:"month"`
	OpeningCash       float64    `json:"opening_cash"`
	ProjectedInflows  float64    `json:"projected_inflows"`
	ProjectedOutflows float64    `json:"projected_outflows"`
	NetCashFlow       float64    `json:"net_cash_flow"`
	ClosingCash       float64    `json:"closing_cash"`
	Confidence        Confidence `json:"confidence"`
}
