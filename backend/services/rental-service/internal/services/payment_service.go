package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// CardVerifier confirms that a card payment really settled.
type CardVerifier interface {
	Verify(ctx context.Context, reference string, amount decimal.Decimal) error
}

type stripeVerifier struct{}

// NewStripeVerifier sets the process-wide Stripe key and checks
// PaymentIntents against it.
func NewStripeVerifier(secretKey string) CardVerifier {
	stripe.Key = secretKey
	return stripeVerifier{}
}

func (stripeVerifier) Verify(ctx context.Context, reference string, amount decimal.Decimal) error {
	if !strings.HasPrefix(reference, "pi_") {
		return fmt.Errorf("%w: reference %q is not a PaymentIntent", ErrPaymentNotVerified, reference)
	}
	pi, err := paymentintent.Get(reference, nil)
	if err != nil {
		return fmt.Errorf("%w: stripe: %v", utils.ErrExternalServiceFailure, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: intent status %s", ErrPaymentNotVerified, pi.Status)
	}
	if cents := toCents(amount); pi.Amount != cents {
		return fmt.Errorf("%w: intent amount %d, recorded %d", ErrPaymentNotVerified, pi.Amount, cents)
	}
	return nil
}

// toCents rounds the same way the stored amount is rounded.
func toCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

type PaymentService interface {
	Record(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID, req dtos.RecordPaymentRequest) (*models.Payment, error)
	// List returns the tenancy's payments; status is "all" or a payment status.
	List(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID, status string) ([]*models.Payment, error)
}

type paymentService struct {
	payments  repositories.PaymentRepository
	users     repositories.UserRepository
	tenancies TenancyService
	verifier  CardVerifier
	mailer    utils.Mailer
	now       func() time.Time
}

// NewPaymentService accepts a nil verifier (card references are then
// stored unverified) and a nil mailer (no receipts).
func NewPaymentService(
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	tenancies TenancyService,
	verifier CardVerifier,
	mailer utils.Mailer,
) PaymentService {
	return &paymentService{
		payments:  payments,
		users:     users,
		tenancies: tenancies,
		verifier:  verifier,
		mailer:    mailer,
		now:       time.Now,
	}
}

func (s *paymentService) Record(
	ctx context.Context,
	sess middleware.Session,
	tenancyID uuid.UUID,
	req dtos.RecordPaymentRequest,
) (*models.Payment, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, invalid("amount", "must be greater than zero")
	}
	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, invalid("month", "must be YYYY-MM")
	}
	method := models.PaymentMethod(req.Method)
	switch method {
	case models.PaymentMethodCard, models.PaymentMethodMomo, models.PaymentMethodInsta, models.PaymentMethodCash:
	default:
		return nil, invalid("method", "must be card, momo, insta or cash")
	}

	tenancy, err := s.tenancies.Owned(ctx, sess, tenancyID)
	if err != nil {
		return nil, err
	}

	if method == models.PaymentMethodCard && s.verifier != nil {
		if err := s.verifier.Verify(ctx, strings.TrimSpace(req.Reference), amount); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	due := req.DueDate.Time()
	if due.IsZero() {
		due = month
	}
	p := &models.Payment{
		ID:          uuid.New(),
		TenancyID:   tenancy.ID,
		ApartmentID: tenancy.ApartmentID,
		UserID:      sess.UserID,
		Month:       req.Month,
		Amount:      amount,
		Method:      method,
		Account:     strings.TrimSpace(req.Account),
		Reference:   strings.TrimSpace(req.Reference),
		Status:      models.PaymentPaid,
		DueDate:     due,
		PaidAt:      &now,
	}
	if method == models.PaymentMethodCash {
		p.Status = models.PaymentPending
		p.PaidAt = nil
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if method == models.PaymentMethodCard && isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentReferenceUsed, p.Reference)
		}
		return nil, err
	}

	s.sendReceipt(ctx, sess, p)
	utils.Logger.WithField("payment_id", p.ID).Infof("payment recorded (%s, %s)", p.Method, p.Status)
	return p, nil
}

// sendReceipt never fails the payment.
func (s *paymentService) sendReceipt(ctx context.Context, sess middleware.Session, p *models.Payment) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil || user == nil {
		utils.Logger.WithError(err).Warn("receipt skipped: payer not loaded")
		return
	}
	subject := fmt.Sprintf(receiptSubject, p.Month)
	text := fmt.Sprintf(receiptText, user.Name, p.Amount.StringFixed(2), p.Month, p.Method, p.Status)
	html := fmt.Sprintf(receiptHTML, user.Name, p.Amount.StringFixed(2), p.Month, p.Method, p.Status, s.now().Year(), utils.OrganizationName)
	if err := s.mailer.Send(ctx, user.Name, user.Email, subject, text, html); err != nil {
		utils.Logger.WithError(err).WithField("payment_id", p.ID).Warn("payment receipt not sent")
	}
}

func (s *paymentService) List(
	ctx context.Context,
	sess middleware.Session,
	tenancyID uuid.UUID,
	status string,
) ([]*models.Payment, error) {
	var filter *models.PaymentStatus
	if status != "" && status != listAll {
		st := models.PaymentStatus(status)
		if !st.Valid() {
			return nil, invalid("status", "must be all, pending, paid or overdue")
		}
		filter = &st
	}
	if _, err := s.tenancies.Owned(ctx, sess, tenancyID); err != nil {
		return nil, err
	}
	return s.payments.ListByTenancy(ctx, tenancyID, filter)
}
