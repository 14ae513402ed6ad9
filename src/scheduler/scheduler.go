package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/services"
	"github.com/manideepv28/wealthwizard/src/storage"
)

// Scheduler runs the recurring background jobs: raising sip_due alerts and
// refreshing catalog NAVs. Plans are never executed automatically; the due
// job only notifies and advances the plan's next date.
type Scheduler struct {
	cron     *cron.Cron
	sipPlans storage.SipPlanStore
	funds    storage.FundStore
	alerts   *services.AlertService
	nav      *services.NavService
}

func New(sipPlans storage.SipPlanStore, funds storage.FundStore, alerts *services.AlertService, nav *services.NavService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sipPlans: sipPlans,
		funds:    funds,
		alerts:   alerts,
		nav:      nav,
	}
}

// Start registers the configured jobs and starts the cron loop. An empty
// schedule disables its job.
func (s *Scheduler) Start(sipSchedule, navSchedule string) error {
	if sipSchedule != "" {
		if _, err := s.cron.AddFunc(sipSchedule, s.runSipAlerts); err != nil {
			return fmt.Errorf("registering sip alert job (%q): %w", sipSchedule, err)
		}
		logger.L.Info("SIP alert job scheduled", "schedule", sipSchedule)
	}
	if navSchedule != "" {
		if _, err := s.cron.AddFunc(navSchedule, s.runNavRefresh); err != nil {
			return fmt.Errorf("registering nav refresh job (%q): %w", navSchedule, err)
		}
		logger.L.Info("NAV refresh job scheduled", "schedule", navSchedule)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSipAlerts() {
	if err := s.RunSipAlerts(time.Now()); err != nil {
		logger.L.Error("SIP alert job failed", "error", err)
	}
}

func (s *Scheduler) runNavRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.nav.RefreshNavs(ctx); err != nil {
		logger.L.Error("NAV refresh job failed", "error", err)
	}
}

// RunSipAlerts raises a sip_due alert for every active plan whose next date
// has arrived and advances the plan to its following occurrence. A failed
// plan is logged and skipped; the rest still run.
func (s *Scheduler) RunSipAlerts(now time.Time) error {
	due, err := s.sipPlans.ListDue(now)
	if err != nil {
		return fmt.Errorf("listing due sip plans: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	for _, plan := range due {
		fundName := fmt.Sprintf("fund %d", plan.FundID)
		if fund, err := s.funds.GetByID(plan.FundID); err == nil {
			fundName = fund.Name
		}

		title := fmt.Sprintf("SIP due: %s", fundName)
		description := fmt.Sprintf("Your %s SIP of ₹%.2f in %s is due. Record the investment to keep your portfolio current.",
			plan.Frequency, plan.Amount, fundName)
		if _, err := s.alerts.Raise(plan.UserID, models.AlertSipDue, title, description); err != nil {
			logger.L.Error("Failed to raise sip_due alert", "planID", plan.ID, "error", err)
			continue
		}

		next := NextOccurrence(plan.NextDate, plan.Frequency, now)
		if err := s.sipPlans.UpdateNextDate(plan.ID, next); err != nil {
			logger.L.Error("Failed to advance sip plan", "planID", plan.ID, "error", err)
			continue
		}
		logger.L.Info("Raised sip_due alert", "planID", plan.ID, "userID", plan.UserID, "nextDate", next)
	}
	return nil
}

// NextOccurrence steps a plan date forward by its frequency until it lands
// after now, so a plan that was due several periods ago is not re-alerted
// once per missed period.
func NextOccurrence(from time.Time, frequency string, now time.Time) time.Time {
	next := from
	for !next.After(now) {
		switch frequency {
		case models.FrequencyWeekly:
			next = next.AddDate(0, 0, 7)
		case models.FrequencyMonthly:
			next = next.AddDate(0, 1, 0)
		case models.FrequencyQuarterly:
			next = next.AddDate(0, 3, 0)
		default:
			return next.AddDate(0, 1, 0)
		}
	}
	return next
}
