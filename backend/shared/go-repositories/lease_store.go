package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

// LeaseTx is the set of writes that turn an approved application into a
// tenancy. Every method runs on the same database transaction.
type LeaseTx interface {
	// LockApplication re-reads the application FOR UPDATE. A nil result
	// means the row is gone, usually because a concurrent acceptance won.
	LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	InsertTenancy(ctx context.Context, t *models.Tenancy) error
	// LinkUserTenancy points users.tenancy_id at the new tenancy.
	LinkUserTenancy(ctx context.Context, userID, tenancyID uuid.UUID) error
	// MarkUnitOccupied flips the unit from available to occupied inside a
	// savepoint. marked is false when the unit was not available. A non-nil
	// error leaves the outer transaction usable.
	MarkUnitOccupied(ctx context.Context, unitID uuid.UUID) (marked bool, err error)
	// DeleteApplication removes the application; a missing row is a no-op.
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}

// LeaseStore runs fn inside one transaction. fn returning an error rolls
// everything back; returning nil commits.
type LeaseStore interface {
	InTx(ctx context.Context, fn func(tx LeaseTx) error) error
}

type leaseStore struct {
	db DB
}

func NewLeaseStore(db DB) LeaseStore {
	return &leaseStore{db: db}
}

func (s *leaseStore) InTx(ctx context.Context, fn func(tx LeaseTx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(&leaseTx{tx: tx})
}

type leaseTx struct {
	tx pgx.Tx
}

func (l *leaseTx) LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return scanApplication(l.tx.QueryRow(ctx, baseSelectApplication()+" WHERE a.id=$1 FOR UPDATE", id))
}

func (l *leaseTx) InsertTenancy(ctx context.Context, t *models.Tenancy) error {
	return l.tx.QueryRow(ctx, `
		INSERT INTO tenancies (
			id, user_id, apartment_id, lease_start_date, lease_end_date,
			emergency_contact_name, emergency_contact_phone, emergency_relationship,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		t.ID, t.UserID, t.ApartmentID, t.LeaseStartDate, t.LeaseEndDate,
		t.EmergencyContactName, t.EmergencyContactPhone, t.EmergencyRelationship,
	).Scan(&t.CreatedAt, &t.UpdatedAt, &t.RowVersion)
}

func (l *leaseTx) LinkUserTenancy(ctx context.Context, userID, tenancyID uuid.UUID) error {
	tag, err := l.tx.Exec(ctx, `
		UPDATE users
		SET tenancy_id=$1, updated_at=NOW(), row_version=row_version+1
		WHERE id=$2
	`, tenancyID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (l *leaseTx) MarkUnitOccupied(ctx context.Context, unitID uuid.UUID) (bool, error) {
	sp, err := l.tx.Begin(ctx)
	if err != nil {
		return false, err
	}
	tag, err := sp.Exec(ctx, `
		UPDATE units
		SET occupancy_status='occupied', updated_at=NOW(), row_version=row_version+1
		WHERE id=$1 AND occupancy_status='available'
	`, unitID)
	if err != nil {
		_ = sp.Rollback(ctx)
		return false, err
	}
	if err := sp.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (l *leaseTx) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	_, err := l.tx.Exec(ctx, `DELETE FROM tenant_applications WHERE id=$1`, id)
	return err
}
