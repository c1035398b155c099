package analytics

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Engine computes runway, cash-gap, dashboard and forecast results from
// Gateway snapshots. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	gw  Gateway
	log *logrus.Logger
	now func() time.Time
}

// NewEngine initializes a new engine
func NewEngine(gw Gateway, log *logrus.Logger) *Engine {
	return &Engine{gw: gw, log: log, now: time.Now}
}

func clampHorizon(months int) int {
	if months < MinHorizonMonths {
		return MinHorizonMonths
	}
	return months
}

// monthLabel names the month offset months after the one containing now
func monthLabel(now time.Time, offset int) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, offset, 0).Format(monthLabelLayout)
}
