package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

// TenancyRepository covers reads and edits of existing tenancies. New
// tenancies are only ever created through LeaseStore.
type TenancyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Tenancy, error)

	UpdateIfVersion(ctx context.Context, t *models.Tenancy, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenancy) error) error
}

type tenancyRepo struct {
	*BaseVersionedRepo[*models.Tenancy]
	db DB
}

func NewTenancyRepository(db DB) TenancyRepository {
	r := &tenancyRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectTenancy()+" WHERE id=$1", scanTenancy)
	return r
}

func (r *tenancyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *tenancyRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Tenancy, error) {
	rows, err := r.db.Query(ctx, baseSelectTenancy()+" WHERE user_id=$1 ORDER BY lease_start_date DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tenancy
	for rows.Next() {
		t, err := scanTenancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tenancyRepo) UpdateIfVersion(ctx context.Context, t *models.Tenancy, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE tenancies
		SET emergency_contact_name=$1, emergency_contact_phone=$2, emergency_relationship=$3,
		    lease_end_date=$4, updated_at=NOW(), row_version=row_version+1
		WHERE id=$5 AND row_version=$6
	`,
		t.EmergencyContactName, t.EmergencyContactPhone, t.EmergencyRelationship,
		t.LeaseEndDate, t.ID, expected,
	)
}

func (r *tenancyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenancy) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectTenancy() string {
	return `
		SELECT id, user_id, apartment_id, lease_start_date, lease_end_date,
		       emergency_contact_name, emergency_contact_phone, emergency_relationship,
		       created_at, updated_at, row_version
		FROM tenancies`
}

func scanTenancy(row pgx.Row) (*models.Tenancy, error) {
	var t models.Tenancy
	if err := row.Scan(
		&t.ID, &t.UserID, &t.ApartmentID, &t.LeaseStartDate, &t.LeaseEndDate,
		&t.EmergencyContactName, &t.EmergencyContactPhone, &t.EmergencyRelationship,
		&t.CreatedAt, &t.UpdatedAt, &t.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
