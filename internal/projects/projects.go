// Package projects manages fundraising campaigns. Running totals are owned
// by the ledger and are never written here.
package projects

import (
	"context"
	"errors"
	"strings"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/store"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = apperr.New(apperr.NotFound, "project not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	Name        string
	Description *string
	GoalAmount  decimal.Decimal
}

// UpdateInput is a partial patch; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	GoalAmount  *decimal.Decimal
	Status      *models.ProjectStatus
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.GoalAmount.IsZero() {
		return nil, apperr.New(apperr.InvalidArgument, "project name and goal amount are required")
	}
	if err := validateGoal(in.GoalAmount); err != nil {
		return nil, err
	}

	p := &models.Project{
		Name:          name,
		Description:   in.Description,
		GoalAmount:    in.GoalAmount,
		CurrentAmount: decimal.Zero,
		Status:        models.ProjectActive,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, store.TranslateError(err, "failed to create project")
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&projects).Error; err != nil {
		return nil, store.TranslateError(err, "failed to list projects")
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Project, error) {
	return get(s.db.WithContext(ctx), id)
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*models.Project, error) {
	var updated *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := get(tx, id); err != nil {
			return err
		}

		changes, err := in.changes()
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}

		updated, err = get(tx, id)
		return err
	})
	if err != nil {
		return nil, store.TranslateError(err, "failed to update project")
	}
	return updated, nil
}

// Delete removes the project; its donations go with it through the
// foreign key cascade.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return store.TranslateError(res.Error, "failed to delete project")
	}
	if res.RowsAffected == 0 {
		return errNotFound
	}
	return nil
}

func get(db *gorm.DB, id uint) (*models.Project, error) {
	var p models.Project
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, store.TranslateError(err, "failed to load project")
	}
	return &p, nil
}

func (in UpdateInput) changes() (map[string]any, error) {
	changes := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.New(apperr.InvalidArgument, "project name cannot be empty")
		}
		changes["name"] = name
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if in.GoalAmount != nil {
		if err := validateGoal(*in.GoalAmount); err != nil {
			return nil, err
		}
		changes["goal_amount"] = *in.GoalAmount
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.New(apperr.InvalidArgument, "status must be one of active, completed, cancelled")
		}
		changes["status"] = *in.Status
	}
	if len(changes) == 0 {
		return nil, apperr.New(apperr.InvalidArgument, "no updates provided")
	}
	return changes, nil
}

func validateGoal(goal decimal.Decimal) error {
	if !goal.IsPositive() {
		return apperr.New(apperr.InvalidArgument, "goal amount must be greater than 0")
	}
	if !goal.Equal(goal.Truncate(2)) {
		return apperr.New(apperr.InvalidArgument, "goal amount supports at most two decimal places")
	}
	if goal.GreaterThan(models.MaxAmount) {
		return apperr.New(apperr.InvalidArgument, "goal amount exceeds the maximum of "+models.MaxAmount.StringFixed(2))
	}
	return nil
}
