package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodMomo  PaymentMethod = "momo"
	PaymentMethodInsta PaymentMethod = "insta"
	PaymentMethodCash  PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Payment is a rent payment recorded by a tenant against a tenancy.
// Account holds the payer's account reference in plaintext; it is
// encrypted by the repository before it reaches the database.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	TenancyID   uuid.UUID       `json:"tenancy_id"`
	ApartmentID uuid.UUID       `json:"apartment_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Month       string          `json:"month"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Account     string          `json:"account,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Status      PaymentStatus   `json:"status"`
	DueDate     time.Time       `json:"due_date"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
