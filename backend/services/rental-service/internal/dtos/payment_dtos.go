package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

type RecordPaymentRequest struct {
	Month     string          `json:"month" validate:"required,datetime=2006-01"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=card momo insta cash"`
	Account   string          `json:"account" validate:"omitempty,max=64"`
	Reference string          `json:"reference" validate:"omitempty,max=128"`
	DueDate   Date            `json:"due_date"`
}

type PaymentResponse struct {
	ID            uuid.UUID            `json:"id"`
	TenancyID     uuid.UUID            `json:"tenancy_id"`
	Month         string               `json:"month"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	AccountMasked string               `json:"account,omitempty"`
	Reference     string               `json:"reference,omitempty"`
	Status        models.PaymentStatus `json:"status"`
	DueDate       Date                 `json:"due_date"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// MaskAccount keeps the last four characters.
func MaskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	masked := make([]byte, len(account))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(account)-4:], account[len(account)-4:])
	return string(masked)
}

func NewPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		TenancyID:     p.TenancyID,
		Month:         p.Month,
		Amount:        p.Amount,
		Method:        p.Method,
		AccountMasked: MaskAccount(p.Account),
		Reference:     p.Reference,
		Status:        p.Status,
		DueDate:       NewDate(p.DueDate),
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

func NewPaymentListResponse(ps []*models.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}
