package analytics

const (
	MinHorizonMonths      = 1
	MaxHorizonMonths      = 60
	DefaultRunwayHorizon  = 12
	DefaultCashGapHorizon = 6

	// TrailingExpenseMonths is both the expense look-back window and the fixed
	// divisor of the monthly burn rate, whether or not every month has data.
	TrailingExpenseMonths = 6
	DaysPerMonth          = 30

	RunwayCriticalMonths = 3.0
	RunwayWarningMonths  = 6.0

	SurplusRatioThreshold = 0.2 // surplus above this share of AP is low risk
	DeficitRatioHigh      = 0.5
	DeficitRatioCritical  = 1.0

	NearBucketDays     = 30
	FarBucketDays      = 60
	TimelinePeriodDays = 30

	HighConfidenceMonths   = 3
	MediumConfidenceMonths = 6

	monthLabelLayout = "January 2006"
	periodUnit       = "gün"
)
