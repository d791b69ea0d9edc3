package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	// GetWithProperty also populates u.Property.
	GetWithProperty(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	// List returns units joined with their property; a nil status lists all.
	List(ctx context.Context, status *models.OccupancyStatus) ([]*models.Unit, error)

	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error

	// ReconcileOccupancy flips available units held by a lease that has not
	// ended, started or not, to occupied and returns how many rows changed.
	// Units under maintenance are left alone.
	ReconcileOccupancy(ctx context.Context, asOf time.Time) (int64, error)
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	*BaseVersionedRepo[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUnit()+" WHERE id=$1", scanUnit)
	return r
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	if u.OccupancyStatus == "" {
		u.OccupancyStatus = models.OccupancyAvailable
	}
	for _, s := range []*[]string{&u.Amenities, &u.Rules, &u.Images} {
		if *s == nil {
			*s = []string{}
		}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, property_id, unit_label, monthly_rent, occupancy_status,
			bedroom_count, bathroom_count, square_feet, amenities, rules, images,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, NOW(), NOW(), 1)
	`,
		u.ID, u.PropertyID, u.UnitLabel, u.MonthlyRent, u.OccupancyStatus,
		u.BedroomCount, u.BathroomCount, u.SquareFeet, u.Amenities, u.Rules, u.Images,
	)
	return err
}

/* ---------- reads ---------- */

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *unitRepo) GetWithProperty(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return scanUnitWithProperty(r.db.QueryRow(ctx, baseSelectUnitWithProperty()+" WHERE u.id=$1", id))
}

func (r *unitRepo) List(ctx context.Context, status *models.OccupancyStatus) ([]*models.Unit, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == nil {
		rows, err = r.db.Query(ctx, baseSelectUnitWithProperty()+" ORDER BY p.name, u.unit_label")
	} else {
		rows, err = r.db.Query(ctx,
			baseSelectUnitWithProperty()+" WHERE u.occupancy_status=$1 ORDER BY p.name, u.unit_label",
			*status,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Unit
	for rows.Next() {
		u, err := scanUnitWithProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

/* ---------- update ---------- */

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE units
		SET unit_label=$1, monthly_rent=$2, occupancy_status=$3,
		    bedroom_count=$4, bathroom_count=$5, square_feet=$6,
		    amenities=$7, rules=$8, images=$9,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$10 AND row_version=$11
	`,
		u.UnitLabel, u.MonthlyRent, u.OccupancyStatus,
		u.BedroomCount, u.BathroomCount, u.SquareFeet,
		u.Amenities, u.Rules, u.Images,
		u.ID, expected,
	)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *unitRepo) ReconcileOccupancy(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE units u
		SET occupancy_status='occupied', updated_at=NOW(), row_version=u.row_version+1
		WHERE u.occupancy_status = 'available'
		  AND EXISTS (
		      SELECT 1 FROM tenancies t
		      WHERE t.apartment_id = u.id
		        AND t.lease_end_date > $1
		  )
	`, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------- internals ---------- */

const unitColumns = `
		u.id, u.property_id, u.unit_label, u.monthly_rent, u.occupancy_status,
		u.bedroom_count, u.bathroom_count, u.square_feet, u.amenities, u.rules, u.images,
		u.created_at, u.updated_at, u.row_version`

func baseSelectUnit() string {
	return `SELECT` + unitColumns + ` FROM units u`
}

func baseSelectUnitWithProperty() string {
	return `SELECT` + unitColumns + `,
		p.id, p.name, p.property_type, p.street_address, p.city,
		p.owner_name, p.owner_contact, p.amenities, p.rules, p.image_url, p.created_at
		FROM units u
		JOIN properties p ON p.id = u.property_id`
}

func unitDest(u *models.Unit) []any {
	return []any{
		&u.ID, &u.PropertyID, &u.UnitLabel, &u.MonthlyRent, &u.OccupancyStatus,
		&u.BedroomCount, &u.BathroomCount, &u.SquareFeet, &u.Amenities, &u.Rules, &u.Images,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	}
}

func propertyDest(p *models.Property) []any {
	return []any{
		&p.ID, &p.Name, &p.PropertyType, &p.StreetAddress, &p.City,
		&p.OwnerName, &p.OwnerContact, &p.Amenities, &p.Rules, &p.ImageURL, &p.CreatedAt,
	}
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	if err := row.Scan(unitDest(&u)...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func scanUnitWithProperty(row pgx.Row) (*models.Unit, error) {
	var (
		u models.Unit
		p models.Property
	)
	if err := row.Scan(append(unitDest(&u), propertyDest(&p)...)...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Property = &p
	return &u, nil
}
