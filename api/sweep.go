/*
sweep.go - Month-end background sweep

PURPOSE:
  Runs at the start of each month to roll every partnership forward:
  - Computes the new month's split and creates its ledger row, so partners
    see their shares without anyone hitting the split endpoint first
  - Builds the closed month's safety-pot report and logs it

DESIGN:
  - cron-driven (default: 03:00 on the 1st), RunNow for manual triggering
  - Each partnership is swept independently; one failure doesn't stop the run
  - Ledger row creation is idempotent: an existing row is left untouched

USAGE:
  sweep := NewMonthEndSweep(store, handler, log)
  sweep.Start()
  // ... later
  sweep.Stop()

SEE ALSO:
  - handlers.go: GetSplit creates the same rows on demand
  - safetypot/report.go: Monthly report rendering
*/
package api

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/store"
)

// DefaultSweepSchedule runs the sweep at 03:00 on the first of each month.
const DefaultSweepSchedule = "0 3 1 * *"

// MonthEndSweep rolls all partnerships into the new month on a schedule.
type MonthEndSweep struct {
	Store    store.Store
	Handler  *Handler
	Log      *logrus.Logger
	Schedule string

	cron *cron.Cron
}

// NewMonthEndSweep creates a sweep with the default schedule.
func NewMonthEndSweep(st store.Store, h *Handler, log *logrus.Logger) *MonthEndSweep {
	return &MonthEndSweep{
		Store:    st,
		Handler:  h,
		Log:      log,
		Schedule: DefaultSweepSchedule,
	}
}

// Start registers the cron entry and begins the scheduler.
func (s *MonthEndSweep) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Schedule, s.RunNow); err != nil {
		return err
	}
	s.cron.Start()
	s.Log.WithField("schedule", s.Schedule).Info("month-end sweep started")
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *MonthEndSweep) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.Log.Info("month-end sweep stopped")
	}
}

// RunNow sweeps every partnership immediately.
func (s *MonthEndSweep) RunNow() {
	ctx := context.Background()
	now := s.Handler.now()

	ps, err := s.Store.ListPartnerships(ctx)
	if err != nil {
		s.Log.WithError(err).Error("sweep: failed to list partnerships")
		return
	}

	swept := 0
	for _, p := range ps {
		if err := s.sweepPartnership(ctx, p); err != nil {
			s.Log.WithError(err).WithField("partnership", p.ID).Error("sweep: partnership failed")
			continue
		}
		swept++
	}

	s.Log.WithFields(logrus.Fields{
		"month": finance.MonthKeyOf(now).String(),
		"swept": swept,
		"total": len(ps),
	}).Info("month-end sweep completed")
}

func (s *MonthEndSweep) sweepPartnership(ctx context.Context, p finance.Partnership) error {
	now := s.Handler.now()
	month := finance.MonthKeyOf(now)

	breakdown, err := s.Handler.computeBreakdown(ctx, p, month, now)
	if err != nil {
		return err
	}
	if _, err := s.Handler.ensureLedgerRow(ctx, p, breakdown); err != nil {
		return err
	}

	// Report on the month that just closed.
	pot, policy, err := s.Handler.loadPot(ctx, p.ID)
	if err != nil {
		return err
	}
	report, err := s.Handler.potReport(ctx, pot, policy, month.Prev())
	if err != nil {
		return err
	}

	s.Log.WithFields(logrus.Fields{
		"partnership": p.ID,
		"month":       report.Month.String(),
		"net_change":  report.NetChange.Format(),
	}).Info(report.Summary)

	return nil
}
