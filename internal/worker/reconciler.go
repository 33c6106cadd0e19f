// Package worker runs the periodic payment-schedule maintenance job: unpaid
// entries are moved to late and overdue, and open-ended leases get their
// rolling schedule topped up.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"rentwise/internal/logger"
	"rentwise/internal/schedule"
	"rentwise/internal/services"
)

// runTimeout bounds one scheduled run.
const runTimeout = 5 * time.Minute

// Report summarizes one reconciliation run.
type Report struct {
	AsOf          time.Time `json:"as_of"`
	EntriesAdded  int       `json:"entries_added"`
	MarkedLate    int64     `json:"marked_late"`
	MarkedOverdue int64     `json:"marked_overdue"`
}

// Reconciler drives ReconcileStatuses and ExtendOpenEndedSchedules. Runs are
// serialized whether they come from the cron schedule, the CLI or the ops API.
type Reconciler struct {
	payments services.PaymentServicer
	leases   services.LeaseServicer
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewReconciler creates a new Reconciler.
func NewReconciler(payments services.PaymentServicer, leases services.LeaseServicer) *Reconciler {
	return &Reconciler{payments: payments, leases: leases, now: time.Now}
}

// RunOnce extends open-ended schedules and then reconciles entry statuses as
// of the given day. When extension fails for some leases, statuses are still
// reconciled and the report is returned alongside the error.
func (r *Reconciler) RunOnce(ctx context.Context, asOf time.Time) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := schedule.DateOnly(asOf)
	report := &Report{AsOf: day}

	added, extendErr := r.leases.ExtendOpenEndedSchedules(ctx, day)
	report.EntriesAdded = added

	result, err := r.payments.ReconcileStatuses(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("reconcile statuses: %w", errors.Join(err, extendErr))
	}
	report.MarkedLate = result.MarkedLate
	report.MarkedOverdue = result.MarkedOverdue

	if extendErr != nil {
		return report, fmt.Errorf("extend schedules: %w", extendErr)
	}
	return report, nil
}

func (r *Reconciler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	log := logger.Get()
	report, err := r.RunOnce(ctx, r.now())
	if err != nil {
		log.Errorw("scheduled reconciliation failed", "error", err)
	}
	if report != nil {
		log.Infow("scheduled reconciliation finished",
			"as_of", report.AsOf.Format(time.DateOnly),
			"entries_added", report.EntriesAdded,
			"marked_late", report.MarkedLate,
			"marked_overdue", report.MarkedOverdue,
		)
	}
}

// Start schedules RunOnce with a standard cron expression or descriptor such
// as "@daily", evaluated in UTC.
func (r *Reconciler) Start(spec string) error {
	cl := cronLogger{}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, r.runScheduled); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	c.Start()
	r.cron = c
	logger.Get().Infow("reconciler scheduled", "spec", spec)
	return nil
}

// Stop halts the schedule and waits for a running job to finish or ctx to end.
func (r *Reconciler) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger routes cron's internal logging to zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Get().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Get().Errorw(msg, append(keysAndValues, "error", err)...)
}
