package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest value a numeric(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

type Role string

const (
	RoleDonor Role = "donor"
	RoleAdmin Role = "admin"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:donor;check:role IN ('donor', 'admin')" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Description   *string         `gorm:"type:text" json:"description"`
	GoalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"goal_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"current_amount"`
	Status        ProjectStatus   `gorm:"size:20;not null;default:active;check:status IN ('active', 'completed', 'cancelled')" json:"status"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

// Donation rows are written once by the ledger and never updated.
type Donation struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	User          *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProjectID     uint            `gorm:"not null;index" json:"project_id"`
	Project       *Project        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DonationDate  time.Time       `gorm:"not null;index" json:"donation_date"`
	Status        DonationStatus  `gorm:"size:20;not null;default:pending;check:status IN ('pending', 'completed', 'failed')" json:"status"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	// TransactionID is indexed but not unique; see txid.
	TransactionID string  `gorm:"size:255;index" json:"transaction_id"`
	Notes         *string `gorm:"type:text" json:"notes"`
	ReceiptURL    *string `gorm:"type:text" json:"receipt_url"`
}

// MarshalJSON renders money with exactly two fractional digits, e.g. "100.00".
func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	return json.Marshal(struct {
		alias
		GoalAmount    string `json:"goal_amount"`
		CurrentAmount string `json:"current_amount"`
	}{alias(p), p.GoalAmount.StringFixed(2), p.CurrentAmount.StringFixed(2)})
}

func (d Donation) MarshalJSON() ([]byte, error) {
	type alias Donation
	return json.Marshal(struct {
		alias
		Amount string `json:"amount"`
	}{alias(d), d.Amount.StringFixed(2)})
}

func All() []any {
	return []any{&User{}, &Project{}, &Donation{}}
}
