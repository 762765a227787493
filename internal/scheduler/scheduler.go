// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/ledger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"go.uber.org/zap"
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Definition() gocron.JobDefinition
	Run(ctx context.Context)
}

type Manager struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewManager() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{scheduler: s, ctx: ctx, cancel: cancel}, nil
}

// Register adds job. A run that is still going when the next tick fires
// pushes that tick back instead of overlapping.
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.Definition(),
		gocron.NewTask(func() { job.Run(m.ctx) }),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	return nil
}

func (m *Manager) Start() {
	m.scheduler.Start()
	logger.Log.Info("scheduler started", zap.Int("jobs", len(m.scheduler.Jobs())))
}

func (m *Manager) Stop() {
	m.cancel()
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Log.Error("scheduler shutdown failed", zap.Error(err))
		return
	}
	logger.Log.Info("scheduler stopped")
}

// ReconcileJob compares each project's running total with its settled
// donations and logs every mismatch.
type ReconcileJob struct {
	ledger   *ledger.Service
	interval time.Duration
	workers  int
	// OnDrift, when set, receives the result of every run.
	OnDrift func([]ledger.Drift)
}

func NewReconcileJob(l *ledger.Service, interval time.Duration, workers int) *ReconcileJob {
	return &ReconcileJob{ledger: l, interval: interval, workers: workers}
}

func (j *ReconcileJob) Name() string { return "project_total_reconcile" }

func (j *ReconcileJob) Definition() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

func (j *ReconcileJob) Run(ctx context.Context) {
	start := time.Now()
	drifts, err := j.ledger.Reconcile(ctx, j.workers)
	if err != nil {
		logger.Log.Error("reconcile failed", zap.Error(err))
		return
	}
	for _, d := range drifts {
		logger.Log.Warn("project total drift",
			zap.Uint("project_id", d.ProjectID),
			zap.String("recorded", d.Recorded.StringFixed(2)),
			zap.String("settled", d.Settled.StringFixed(2)),
		)
	}
	logger.Log.Info("reconcile finished",
		zap.Int("drifted", len(drifts)),
		zap.Duration("took", time.Since(start)),
	)
	if j.OnDrift != nil {
		j.OnDrift(drifts)
	}
}
