package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DashboardSource lists users and computes their combined dashboards
type DashboardSource interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	Dashboard(ctx context.Context, userID int64) (models.CombinedDashboard, error)
}

// Notifier delivers a liquidity alert to a user
type Notifier interface {
	SendLiquidityAlert(to, username string, d models.CombinedDashboard, keyRate *float64) error
}

// KeyRateSource provides the reference credit rate quoted in alerts
type KeyRateSource interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

const scanTimeout = 5 * time.Minute

// Scheduler runs the periodic liquidity alert scan
type Scheduler struct {
	cron     *cron.Cron
	source   DashboardSource
	notifier Notifier
	rates    KeyRateSource
	log      *logrus.Logger
}

// NewScheduler registers the alert scan under the given cron spec
func NewScheduler(spec string, source DashboardSource, notifier Notifier, rates KeyRateSource, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		source:   source,
		notifier: notifier,
		rates:    rates,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid alert schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scans in the background
func (s *Scheduler) Start() {
	s.log.Info("Liquidity alert scheduler started")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running scan until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Liquidity alert scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Liquidity alert scan still running at shutdown")
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	sent, err := s.Scan(ctx)
	if err != nil {
		s.log.Errorf("Liquidity alert scan failed: %v", err)
		return
	}
	s.log.WithField("alerts_sent", sent).Info("Liquidity alert scan finished")
}

// Scan alerts every user whose overall risk is high or critical. Per-user
// failures are logged and skipped. It returns the number of alerts sent.
func (s *Scheduler) Scan(ctx context.Context) (int, error) {
	users, err := s.source.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	var (
		keyRate     *float64
		rateFetched bool
		sent        int
	)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		entry := s.log.WithField("user_id", u.ID)
		d, err := s.source.Dashboard(ctx, u.ID)
		if err != nil {
			entry.Errorf("Failed to build dashboard: %v", err)
			continue
		}
		if !needsAlert(d.OverallRisk) {
			continue
		}

		if !rateFetched {
			rateFetched = true
			if rate, err := s.rates.GetKeyRate(ctx); err != nil {
				s.log.Warnf("Key rate unavailable for alerts: %v", err)
			} else {
				keyRate = &rate
			}
		}

		if err := s.notifier.SendLiquidityAlert(u.Email, u.Username, d, keyRate); err != nil {
			entry.Errorf("Failed to send liquidity alert: %v", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func needsAlert(risk models.RiskLevel) bool {
	return risk == models.RiskHigh || risk == models.RiskCritical
}
