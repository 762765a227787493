// Package seed loads demo accounts, projects and a donation into an empty
// database.
package seed

import (
	"context"
	"fmt"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/accounts"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/ledger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/projects"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedPassword = "password123"
	adminEmail   = "admin@donations.local"
)

var testDonors = []struct {
	Name  string
	Email string
}{
	{"Test Donor 1", "donor1@test.com"},
	{"Test Donor 2", "donor2@test.com"},
}

var testProjects = []struct {
	Name        string
	Description string
	Goal        string
}{
	{"Clean Water Initiative", "Wells and filtration for rural schools", "10000.00"},
	{"Library Rebuild", "Books and shelving for the community library", "2500.00"},
}

type Seeder struct {
	DB        *gorm.DB
	Accounts  *accounts.Service
	Projects  *projects.Service
	Ledger    *ledger.Service
	AdminCode string
}

// Run is a no-op when the seed admin already exists.
func (s *Seeder) Run(ctx context.Context) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if count > 0 {
		logger.Log.Info("seed already applied, skipping")
		return nil
	}
	if s.AdminCode == "" {
		return apperr.New(apperr.InvalidArgument, "admin registration code must be configured to seed")
	}

	if _, err := s.Accounts.AdminSignup(ctx, accounts.SignupInput{
		Name: "Seed Admin", Email: adminEmail, Password: seedPassword,
	}, s.AdminCode); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	var donors []*models.User
	for _, d := range testDonors {
		sess, err := s.Accounts.Signup(ctx, accounts.SignupInput{Name: d.Name, Email: d.Email, Password: seedPassword})
		if err != nil {
			return fmt.Errorf("seed donor %s: %w", d.Email, err)
		}
		donors = append(donors, sess.User)
	}

	var created []*models.Project
	for _, p := range testProjects {
		desc := p.Description
		project, err := s.Projects.Create(ctx, projects.CreateInput{
			Name:        p.Name,
			Description: &desc,
			GoalAmount:  decimal.RequireFromString(p.Goal),
		})
		if err != nil {
			return fmt.Errorf("seed project %s: %w", p.Name, err)
		}
		created = append(created, project)
	}

	note := "seed donation"
	if _, err := s.Ledger.RecordDonation(ctx, ledger.DonationRequest{
		UserID:        donors[0].ID,
		ProjectID:     created[0].ID,
		Amount:        decimal.RequireFromString("150.00"),
		PaymentMethod: "credit_card",
		Notes:         &note,
	}); err != nil {
		return fmt.Errorf("seed donation: %w", err)
	}

	logger.Log.Info("seeded demo data",
		zap.Int("donors", len(donors)),
		zap.Int("projects", len(created)),
		zap.String("password", seedPassword),
	)
	return nil
}
