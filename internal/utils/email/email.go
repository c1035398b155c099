package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/liquidity-service/internal/config"
	"github.com/Dan9191/liquidity-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// LiquidityAlert builds the alert email for a user's dashboard. keyRate is
// omitted from the body when nil.
func (s *Sender) LiquidityAlert(to, username string, d models.CombinedDashboard, keyRate *float64) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Liquidity Alert: %s risk", strings.ToUpper(string(d.OverallRisk)))

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	fmt.Fprintf(&b, "Your overall liquidity risk is %s.\n\n", d.OverallRisk)
	fmt.Fprintf(&b, "Cash on hand: %.2f\n", d.Summary.TotalCash)
	if d.Runway.RunwayMonths.IsInf() {
		fmt.Fprintf(&b, "Runway: unlimited at current spending (%s)\n", d.Summary.RunwayStatus)
	} else {
		fmt.Fprintf(&b, "Runway: %.1f months (%s)\n", float64(d.Runway.RunwayMonths), d.Summary.RunwayStatus)
	}
	fmt.Fprintf(&b, "Receivables: %.2f, payables: %.2f (cash gap risk %s)\n",
		d.Summary.TotalAR, d.Summary.TotalAP, d.Summary.CashGapStatus)
	fmt.Fprintf(&b, "Net position: %.2f\n", d.Summary.NetPosition)
	if keyRate != nil {
		fmt.Fprintf(&b, "Current reference credit rate: %.2f%%\n", *keyRate)
	}

	recs := make([]models.Recommendation, 0, len(d.Runway.Recommendations)+len(d.CashGap.Recommendations))
	recs = append(recs, d.Runway.Recommendations...)
	recs = append(recs, d.CashGap.Recommendations...)
	if len(recs) > 0 {
		b.WriteString("\nRecommended actions:\n")
		seen := make(map[string]bool)
		for _, r := range recs {
			if seen[r.Code] {
				continue
			}
			seen[r.Code] = true
			fmt.Fprintf(&b, "- %s\n", r.Message)
		}
	}
	b.WriteString("\nBest regards,\nLiquidity Service")
	e.Text = []byte(b.String())
	return e
}

// SendLiquidityAlert sends a liquidity alert email
func (s *Sender) SendLiquidityAlert(to, username string, d models.CombinedDashboard, keyRate *float64) error {
	e := s.LiquidityAlert(to, username, d, keyRate)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
