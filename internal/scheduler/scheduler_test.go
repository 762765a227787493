package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/ledger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/testutil"
	"github.com/shopspring/decimal"
)

type countingJob struct {
	runs atomic.Int32
	done chan struct{}
}

func (j *countingJob) Name() string                     { return "counting" }
func (j *countingJob) Definition() gocron.JobDefinition { return gocron.DurationJob(10 * time.Millisecond) }
func (j *countingJob) Run(ctx context.Context) {
	if j.runs.Add(1) == 2 {
		close(j.done)
	}
}

func TestManagerRunsRegisteredJob(t *testing.T) {
	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	job := &countingJob{done: make(chan struct{})}
	if err := m.Register(job); err != nil {
		t.Fatalf("Register: %v", err)
	}
	m.Start()
	defer m.Stop()

	select {
	case <-job.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("job ran %d times, want at least 2", job.runs.Load())
	}
}

func TestReconcileJobReportsDrift(t *testing.T) {
	db := testutil.NewDB(t)
	donor := testutil.CreateUser(t, db, "Dana Donor", models.RoleDonor)
	clean := testutil.CreateProject(t, db, "Wells", "1000.00", models.ProjectActive)
	skewed := testutil.CreateProject(t, db, "Books", "500.00", models.ProjectActive)

	l := ledger.NewService(db)
	for _, p := range []*models.Project{clean, skewed} {
		_, err := l.RecordDonation(context.Background(), ledger.DonationRequest{
			UserID:        donor.ID,
			ProjectID:     p.ID,
			Amount:        decimal.RequireFromString("25.00"),
			PaymentMethod: "card",
		})
		if err != nil {
			t.Fatalf("RecordDonation: %v", err)
		}
	}
	if err := db.Model(&models.Project{}).Where("id = ?", skewed.ID).
		Update("current_amount", decimal.RequireFromString("99.00")).Error; err != nil {
		t.Fatalf("tamper: %v", err)
	}

	var got []ledger.Drift
	job := NewReconcileJob(l, time.Minute, 2)
	job.OnDrift = func(d []ledger.Drift) { got = d }
	job.Run(context.Background())

	if len(got) != 1 {
		t.Fatalf("drifts = %+v, want exactly one", got)
	}
	if got[0].ProjectID != skewed.ID {
		t.Errorf("drift project = %d, want %d", got[0].ProjectID, skewed.ID)
	}
	if !got[0].Settled.Equal(decimal.RequireFromString("25")) {
		t.Errorf("settled = %s, want 25", got[0].Settled)
	}
}

func TestReconcileJobSchedule(t *testing.T) {
	job := NewReconcileJob(nil, 15*time.Minute, 1)
	if job.Name() == "" {
		t.Fatal("job name must not be empty")
	}
	if job.Definition() == nil {
		t.Fatal("job definition must not be nil")
	}
}
