// Package ledger records donations and keeps each project's running total
// equal to the sum of its completed donations.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/store"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/txid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errProjectVanished = errors.New("project row missing during total update")

type Service struct {
	db      *gorm.DB
	newTxID func() (string, error)
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTxIDGenerator(g *txid.Generator) Option {
	return func(s *Service) { s.newTxID = g.Next }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:      db,
		newTxID: txid.NewGenerator(txid.DefaultPrefix).Next,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type DonationRequest struct {
	UserID        uint
	ProjectID     uint
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         *string
}

// RecordDonation validates the target project, then inserts a completed
// donation and credits the project's current_amount in one transaction.
// Checks run in order: project exists, project is active, amount is valid.
func (s *Service) RecordDonation(ctx context.Context, req DonationRequest) (*models.Donation, error) {
	var donation models.Donation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, req.ProjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "project not found")
		}
		if err != nil {
			return err
		}

		if project.Status != models.ProjectActive {
			return apperr.New(apperr.InvalidState, "cannot donate to an inactive project")
		}
		if err := validateAmount(req.Amount); err != nil {
			return err
		}

		id, err := s.newTxID()
		if err != nil {
			return err
		}

		donation = models.Donation{
			UserID:        req.UserID,
			ProjectID:     project.ID,
			Amount:        req.Amount,
			DonationDate:  s.now().UTC(),
			Status:        models.DonationCompleted,
			PaymentMethod: strings.TrimSpace(req.PaymentMethod),
			TransactionID: id,
			Notes:         req.Notes,
		}
		if err := tx.Omit(clause.Associations).Create(&donation).Error; err != nil {
			return err
		}

		if donation.Status != models.DonationCompleted {
			return nil
		}
		return credit(tx, project.ID, donation.Amount)
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		logger.Log.Error("donation rolled back",
			zap.Uint("user_id", req.UserID),
			zap.Uint("project_id", req.ProjectID),
			zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "failed to record donation", err)
	}

	logger.Log.Info("donation recorded",
		zap.Uint("donation_id", donation.ID),
		zap.Uint("project_id", donation.ProjectID),
		zap.String("transaction_id", donation.TransactionID),
		zap.Stringer("amount", donation.Amount))
	return &donation, nil
}

// credit adds amount to the project's running total. The increment is done
// in SQL so concurrent credits never overwrite each other.
func credit(tx *gorm.DB, projectID uint, amount decimal.Decimal) error {
	res := tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("current_amount", gorm.Expr("current_amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errProjectVanished
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.New(apperr.InvalidArgument, "donation amount must be greater than 0")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return apperr.New(apperr.InvalidArgument, "donation amount supports at most two decimal places")
	}
	if amount.GreaterThan(models.MaxAmount) {
		return apperr.New(apperr.InvalidArgument, "donation amount exceeds the maximum of "+models.MaxAmount.StringFixed(2))
	}
	return nil
}

type HistoryUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type HistoryEntry struct {
	Amount       decimal.Decimal       `json:"amount"`
	DonationDate time.Time             `json:"donation_date"`
	Status       models.DonationStatus `json:"status"`
	ReceiptURL   *string               `json:"receipt_url"`
}

func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	type alias HistoryEntry
	return json.Marshal(struct {
		alias
		Amount string `json:"amount"`
	}{alias(e), e.Amount.StringFixed(2)})
}

type History struct {
	User      HistoryUser    `json:"user"`
	Donations []HistoryEntry `json:"donations"`
}

type historyRow struct {
	Amount       decimal.Decimal
	DonationDate time.Time
	Status       models.DonationStatus
	ReceiptURL   *string
	Name         string
	Email        string
}

// ListDonationsForUser returns the user's donations, newest first. A user
// without donations gets NotFound rather than an empty history.
func (s *Service) ListDonationsForUser(ctx context.Context, userID uint) (*History, error) {
	var rows []historyRow
	err := s.db.WithContext(ctx).
		Table("donations AS d").
		Select("d.amount, d.donation_date, d.status, d.receipt_url, u.name, u.email").
		Joins("JOIN users u ON d.user_id = u.id").
		Where("d.user_id = ?", userID).
		Order("d.donation_date DESC").
		Order("d.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, store.TranslateError(err, "failed to load donation history")
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.NotFound, "no donations found for this user")
	}

	h := &History{
		User:      HistoryUser{Name: rows[0].Name, Email: rows[0].Email},
		Donations: make([]HistoryEntry, 0, len(rows)),
	}
	for _, r := range rows {
		h.Donations = append(h.Donations, HistoryEntry{
			Amount:       r.Amount,
			DonationDate: r.DonationDate,
			Status:       r.Status,
			ReceiptURL:   r.ReceiptURL,
		})
	}
	return h, nil
}
