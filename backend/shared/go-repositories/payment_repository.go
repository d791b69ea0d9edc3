package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	// ListByTenancy returns payments newest first; a nil status lists all.
	ListByTenancy(ctx context.Context, tenancyID uuid.UUID, status *models.PaymentStatus) ([]*models.Payment, error)
	// MarkOverdue moves pending payments due before asOf to overdue.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// paymentRepo encrypts the payer account column at rest with encKey.
type paymentRepo struct {
	db     DB
	encKey []byte
}

func NewPaymentRepository(db DB, encKey []byte) PaymentRepository {
	return &paymentRepo{db: db, encKey: encKey}
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	var encAccount *string
	if p.Account != "" {
		enc, err := utils.Encrypt(r.encKey, p.Account)
		if err != nil {
			return err
		}
		encAccount = &enc
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO payments (
			id, tenancy_id, apartment_id, user_id, month, amount, method,
			account_enc, reference, status, due_date, paid_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, NOW(), NOW())
		RETURNING created_at, updated_at
	`,
		p.ID, p.TenancyID, p.ApartmentID, p.UserID, p.Month, p.Amount, p.Method,
		encAccount, p.Reference, p.Status, p.DueDate, p.PaidAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *paymentRepo) ListByTenancy(
	ctx context.Context,
	tenancyID uuid.UUID,
	status *models.PaymentStatus,
) ([]*models.Payment, error) {
	q := `
		SELECT id, tenancy_id, apartment_id, user_id, month, amount, method,
		       account_enc, reference, status, due_date, paid_at, created_at, updated_at
		FROM payments
		WHERE tenancy_id=$1`
	args := []any{tenancyID}
	if status != nil {
		q += ` AND status=$2`
		args = append(args, *status)
	}
	q += ` ORDER BY due_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status='overdue', updated_at=NOW()
		WHERE status='pending' AND due_date < $1
	`, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *paymentRepo) scanPayment(row pgx.Row) (*models.Payment, error) {
	var (
		p   models.Payment
		enc *string
	)
	if err := row.Scan(
		&p.ID, &p.TenancyID, &p.ApartmentID, &p.UserID, &p.Month, &p.Amount, &p.Method,
		&enc, &p.Reference, &p.Status, &p.DueDate, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if enc != nil {
		dec, err := utils.Decrypt(r.encKey, *enc)
		if err != nil {
			return nil, err
		}
		p.Account = dec
	}
	return &p, nil
}
