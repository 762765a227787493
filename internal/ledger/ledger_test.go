package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var txIDShape = regexp.MustCompile(`^TXN_\d{14}_[0-9A-F]{6}$`)

// steppingClock advances one minute per call so donation order is stable.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("amount = %s, want %s", got, want)
	}
}

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewService(db, WithClock(steppingClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)))), db
}

func TestRecordDonationCreditsProject(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Ada Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Clean Water", "1000.00", models.ProjectActive)
	notes := "in memory of grandma"

	d, err := svc.RecordDonation(context.Background(), DonationRequest{
		UserID:        donor.ID,
		ProjectID:     project.ID,
		Amount:        dec("100.00"),
		PaymentMethod: "card",
		Notes:         &notes,
	})
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}

	if d.ID == 0 {
		t.Error("donation id not assigned")
	}
	if d.Status != models.DonationCompleted {
		t.Errorf("status = %q, want completed", d.Status)
	}
	if !txIDShape.MatchString(d.TransactionID) {
		t.Errorf("transaction id %q has wrong shape", d.TransactionID)
	}
	if d.ReceiptURL != nil {
		t.Errorf("receipt url = %v, want nil", *d.ReceiptURL)
	}
	assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "100.00")
}

func TestRecordDonationValidationOrder(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Val Donor", models.RoleDonor)
	active := testutil.CreateProject(t, db, "Active", "500.00", models.ProjectActive)
	cancelled := testutil.CreateProject(t, db, "Cancelled", "500.00", models.ProjectCancelled)

	tests := []struct {
		name      string
		projectID uint
		amount    string
		want      apperr.Kind
	}{
		{"missing project wins over bad amount", 9999, "-5", apperr.NotFound},
		{"inactive project wins over bad amount", cancelled.ID, "0", apperr.InvalidState},
		{"zero amount", active.ID, "0", apperr.InvalidArgument},
		{"negative amount", active.ID, "-0.01", apperr.InvalidArgument},
		{"sub-cent amount", active.ID, "0.001", apperr.InvalidArgument},
		{"amount beyond numeric(12,2)", active.ID, "10000000000.00", apperr.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordDonation(context.Background(), DonationRequest{
				UserID:        donor.ID,
				ProjectID:     tt.projectID,
				Amount:        dec(tt.amount),
				PaymentMethod: "card",
			})
			if got := apperr.KindOf(err); err == nil || got != tt.want {
				t.Fatalf("err = %v (kind %v), want kind %v", err, got, tt.want)
			}
		})
	}

	if n := testutil.CountDonations(t, db, active.ID); n != 0 {
		t.Errorf("rejected donations left %d rows", n)
	}
	assertAmount(t, testutil.ReloadProject(t, db, active.ID).CurrentAmount, "0")
}

func TestRecordDonationAcceptsOneCent(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Penny Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Penny Jar", "1.00", models.ProjectActive)

	if _, err := svc.RecordDonation(context.Background(), DonationRequest{
		UserID: donor.ID, ProjectID: project.ID, Amount: dec("0.01"), PaymentMethod: "cash",
	}); err != nil {
		t.Fatalf("RecordDonation(0.01): %v", err)
	}
	assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "0.01")
}

func TestRecordDonationAcceptsMaximumAmount(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Big Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Endowment", "9999999999.99", models.ProjectActive)

	if _, err := svc.RecordDonation(context.Background(), DonationRequest{
		UserID: donor.ID, ProjectID: project.ID, Amount: models.MaxAmount, PaymentMethod: "wire",
	}); err != nil {
		t.Fatalf("RecordDonation(max): %v", err)
	}
	if n := testutil.CountDonations(t, db, project.ID); n != 1 {
		t.Errorf("donation rows = %d, want 1", n)
	}
}

func TestRecordDonationRejectsInactiveProjects(t *testing.T) {
	for _, status := range []models.ProjectStatus{models.ProjectCancelled, models.ProjectCompleted} {
		t.Run(string(status), func(t *testing.T) {
			svc, db := newService(t)
			donor := testutil.CreateUser(t, db, "Late Donor", models.RoleDonor)
			project := testutil.CreateProject(t, db, "Closed", "100.00", status)

			for i := 0; i < 3; i++ {
				_, err := svc.RecordDonation(context.Background(), DonationRequest{
					UserID: donor.ID, ProjectID: project.ID, Amount: dec("10.00"), PaymentMethod: "card",
				})
				if apperr.KindOf(err) != apperr.InvalidState {
					t.Fatalf("attempt %d: err = %v, want InvalidState", i, err)
				}
			}
			if n := testutil.CountDonations(t, db, project.ID); n != 0 {
				t.Errorf("donation rows = %d, want 0", n)
			}
			assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "0")
		})
	}
}

func TestRecordDonationRollsBackWhenCreditFails(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Unlucky Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Roof Repair", "800.00", models.ProjectActive)

	err := db.Callback().Update().Before("gorm:update").Register("test:fail_credit", func(tx *gorm.DB) {
		if tx.Statement.Table == "projects" {
			tx.AddError(errors.New("injected credit failure"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = svc.RecordDonation(context.Background(), DonationRequest{
		UserID: donor.ID, ProjectID: project.ID, Amount: dec("42.00"), PaymentMethod: "card",
	})
	if apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("err = %v, want Internal", err)
	}
	if n := testutil.CountDonations(t, db, project.ID); n != 0 {
		t.Errorf("donation survived rollback: %d rows", n)
	}
	assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "0")
}

func TestRecordDonationRollsBackWhenProjectDisappears(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Racing Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Short Lived", "300.00", models.ProjectActive)

	err := db.Callback().Update().Before("gorm:update").Register("test:delete_project", func(tx *gorm.DB) {
		if tx.Statement.Table != "projects" {
			return
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).
			Exec("DELETE FROM projects WHERE id = ?", project.ID).Error; err != nil {
			tx.AddError(err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = svc.RecordDonation(context.Background(), DonationRequest{
		UserID: donor.ID, ProjectID: project.ID, Amount: dec("15.00"), PaymentMethod: "card",
	})
	if apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("err = %v, want Internal", err)
	}

	if err := db.Callback().Update().Remove("test:delete_project"); err != nil {
		t.Fatalf("remove callback: %v", err)
	}
	// the delete was rolled back together with the donation insert
	reloaded := testutil.ReloadProject(t, db, project.ID)
	assertAmount(t, reloaded.CurrentAmount, "0")
	if n := testutil.CountDonations(t, db, project.ID); n != 0 {
		t.Errorf("donation rows = %d, want 0", n)
	}
}

func TestConcurrentDonationsAreAllCredited(t *testing.T) {
	svc, db := newService(t)
	project := testutil.CreateProject(t, db, "Food Bank", "10000.00", models.ProjectActive)

	const donors = 8
	const perDonor = 5
	users := make([]*models.User, donors)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, "Donor "+string(rune('A'+i)), models.RoleDonor)
	}

	var wg sync.WaitGroup
	errs := make(chan error, donors*perDonor)
	for _, u := range users {
		for j := 0; j < perDonor; j++ {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				_, err := svc.RecordDonation(context.Background(), DonationRequest{
					UserID: userID, ProjectID: project.ID, Amount: dec("12.50"), PaymentMethod: "card",
				})
				errs <- err
			}(u.ID)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent RecordDonation: %v", err)
		}
	}

	assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "500.00")
	if n := testutil.CountDonations(t, db, project.ID); n != donors*perDonor {
		t.Errorf("donation rows = %d, want %d", n, donors*perDonor)
	}
	drifts, err := svc.Reconcile(context.Background(), 4)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(drifts) != 0 {
		t.Errorf("unexpected drift: %+v", drifts)
	}
}

func TestListDonationsForUserNewestFirst(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Repeat Donor", models.RoleDonor)
	other := testutil.CreateUser(t, db, "Other Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Library", "2000.00", models.ProjectActive)

	for _, req := range []struct {
		user   uint
		amount string
	}{
		{donor.ID, "10.00"},
		{other.ID, "99.00"},
		{donor.ID, "20.00"},
		{donor.ID, "30.00"},
	} {
		if _, err := svc.RecordDonation(context.Background(), DonationRequest{
			UserID: req.user, ProjectID: project.ID, Amount: dec(req.amount), PaymentMethod: "card",
		}); err != nil {
			t.Fatalf("RecordDonation: %v", err)
		}
	}

	h, err := svc.ListDonationsForUser(context.Background(), donor.ID)
	if err != nil {
		t.Fatalf("ListDonationsForUser: %v", err)
	}
	if h.User.Name != donor.Name || h.User.Email != donor.Email {
		t.Errorf("user = %+v", h.User)
	}
	want := []string{"30.00", "20.00", "10.00"}
	if len(h.Donations) != len(want) {
		t.Fatalf("got %d donations, want %d", len(h.Donations), len(want))
	}
	for i, w := range want {
		assertAmount(t, h.Donations[i].Amount, w)
		if h.Donations[i].Status != models.DonationCompleted {
			t.Errorf("donation %d status = %q", i, h.Donations[i].Status)
		}
	}
	if !h.Donations[0].DonationDate.After(h.Donations[1].DonationDate) {
		t.Error("history not ordered newest first")
	}
}

func TestHistoryRendersFixedAmounts(t *testing.T) {
	h := History{
		User:      HistoryUser{Name: "Dana", Email: "dana@example.org"},
		Donations: []HistoryEntry{{Amount: dec("100"), Status: models.DonationCompleted}, {Amount: dec("7.5")}},
	}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"amount":"100.00"`, `"amount":"7.50"`, `"email":"dana@example.org"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("%s missing %s", b, want)
		}
	}
}

func TestListDonationsForUserWithoutDonations(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "New Donor", models.RoleDonor)

	h, err := svc.ListDonationsForUser(context.Background(), donor.ID)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("err = %v, want NotFound", err)
	}
	if h != nil {
		t.Errorf("history = %+v, want nil", h)
	}
}

func TestThreeDonorsScenario(t *testing.T) {
	svc, db := newService(t)
	project := testutil.CreateProject(t, db, "School Meals", "1000.00", models.ProjectActive)

	amounts := map[string]string{"Donor One": "100.00", "Donor Two": "250.00", "Donor Three": "50.00"}
	users := map[string]*models.User{}
	for name, amount := range amounts {
		u := testutil.CreateUser(t, db, name, models.RoleDonor)
		users[name] = u
		if _, err := svc.RecordDonation(context.Background(), DonationRequest{
			UserID: u.ID, ProjectID: project.ID, Amount: dec(amount), PaymentMethod: "card",
		}); err != nil {
			t.Fatalf("RecordDonation(%s): %v", name, err)
		}
	}

	assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "400.00")
	for name, u := range users {
		h, err := svc.ListDonationsForUser(context.Background(), u.ID)
		if err != nil {
			t.Fatalf("history %s: %v", name, err)
		}
		if len(h.Donations) != 1 {
			t.Fatalf("history %s has %d donations", name, len(h.Donations))
		}
		assertAmount(t, h.Donations[0].Amount, amounts[name])
		if h.User.Email != u.Email {
			t.Errorf("history %s belongs to %s", name, h.User.Email)
		}
	}
}

func TestDonationAfterProjectCompleted(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Keen Donor", models.RoleDonor)
	project := testutil.CreateProject(t, db, "Bridge", "100.00", models.ProjectActive)

	if _, err := svc.RecordDonation(context.Background(), DonationRequest{
		UserID: donor.ID, ProjectID: project.ID, Amount: dec("100.00"), PaymentMethod: "card",
	}); err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	if err := db.Model(&models.Project{}).Where("id = ?", project.ID).
		Update("status", models.ProjectCompleted).Error; err != nil {
		t.Fatalf("complete project: %v", err)
	}

	_, err := svc.RecordDonation(context.Background(), DonationRequest{
		UserID: donor.ID, ProjectID: project.ID, Amount: dec("5.00"), PaymentMethod: "card",
	})
	if apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("err = %v, want InvalidState", err)
	}
	assertAmount(t, testutil.ReloadProject(t, db, project.ID).CurrentAmount, "100.00")
}

func TestReconcileReportsDrift(t *testing.T) {
	svc, db := newService(t)
	donor := testutil.CreateUser(t, db, "Drift Donor", models.RoleDonor)
	healthy := testutil.CreateProject(t, db, "Healthy", "100.00", models.ProjectActive)
	broken := testutil.CreateProject(t, db, "Broken", "100.00", models.ProjectActive)

	for _, id := range []uint{healthy.ID, broken.ID} {
		if _, err := svc.RecordDonation(context.Background(), DonationRequest{
			UserID: donor.ID, ProjectID: id, Amount: dec("20.00"), PaymentMethod: "card",
		}); err != nil {
			t.Fatalf("RecordDonation: %v", err)
		}
	}
	if err := db.Model(&models.Project{}).Where("id = ?", broken.ID).
		Update("current_amount", dec("35.00")).Error; err != nil {
		t.Fatalf("tamper: %v", err)
	}

	drifts, err := svc.Reconcile(context.Background(), 2)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("drifts = %+v, want one", drifts)
	}
	if drifts[0].ProjectID != broken.ID {
		t.Errorf("drift project = %d, want %d", drifts[0].ProjectID, broken.ID)
	}
	assertAmount(t, drifts[0].Recorded, "35.00")
	assertAmount(t, drifts[0].Settled, "20.00")
}
