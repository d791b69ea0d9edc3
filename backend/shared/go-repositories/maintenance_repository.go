package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

type MaintenanceRepository interface {
	Create(ctx context.Context, c *models.MaintenanceCase) error
	// ListByTenancy returns cases newest first; a nil status lists all.
	ListByTenancy(ctx context.Context, tenancyID uuid.UUID, status *models.MaintenanceStatus) ([]*models.MaintenanceCase, error)
}

type maintenanceRepo struct {
	db DB
}

func NewMaintenanceRepository(db DB) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func (r *maintenanceRepo) Create(ctx context.Context, c *models.MaintenanceCase) error {
	if c.Status == "" {
		c.Status = models.MaintenancePending
	}
	if c.Images == nil {
		c.Images = []string{}
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO maintenance_cases (
			id, tenancy_id, user_id, title, description, images, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW())
		RETURNING created_at
	`, c.ID, c.TenancyID, c.UserID, c.Title, c.Description, c.Images, c.Status).Scan(&c.CreatedAt)
}

func (r *maintenanceRepo) ListByTenancy(
	ctx context.Context,
	tenancyID uuid.UUID,
	status *models.MaintenanceStatus,
) ([]*models.MaintenanceCase, error) {
	q := `
		SELECT id, tenancy_id, user_id, title, description, images, status, created_at
		FROM maintenance_cases
		WHERE tenancy_id=$1`
	args := []any{tenancyID}
	if status != nil {
		q += ` AND status=$2`
		args = append(args, *status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.MaintenanceCase
	for rows.Next() {
		var c models.MaintenanceCase
		if err := rows.Scan(
			&c.ID, &c.TenancyID, &c.UserID, &c.Title, &c.Description, &c.Images, &c.Status, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
