package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

/* ───────────── public interface ───────────── */

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	// ListByApplicant returns the user's applications with the unit and
	// its property populated, newest first.
	ListByApplicant(ctx context.Context, userID uuid.UUID) ([]*models.Application, error)
	ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Application, error)

	UpdateIfVersion(ctx context.Context, a *models.Application, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Application) error) error

	// DeleteForApplicant removes the row only if it belongs to userID.
	// Deleting a row that no longer exists is not an error.
	DeleteForApplicant(ctx context.Context, id, userID uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type applicationRepo struct {
	*BaseVersionedRepo[*models.Application]
	db DB
}

func NewApplicationRepository(db DB) ApplicationRepository {
	r := &applicationRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectApplication()+" WHERE a.id=$1", scanApplication)
	return r
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	if a.ApprovalStatus == "" {
		a.ApprovalStatus = models.ApprovalPending
	}
	if a.Conditions == nil {
		a.Conditions = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenant_applications (
			id, applicant_user_id, apartment_id, approval_status, conditions,
			move_in_date, lease_end_date, applicant_title, employment_status,
			employer_name, household_size,
			emergency_contact_name, emergency_contact_phone, emergency_relationship,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW(), NOW(), 1)
	`,
		a.ID, a.ApplicantUserID, a.ApartmentID, a.ApprovalStatus, a.Conditions,
		a.MoveInDate, a.LeaseEndDate, a.ApplicantTitle, a.EmploymentStatus,
		a.EmployerName, a.HouseholdSize,
		a.EmergencyContactName, a.EmergencyContactPhone, a.EmergencyRelationship,
	)
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, userID uuid.UUID) ([]*models.Application, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+applicationColumns+`,`+unitColumns+`,
		       p.id, p.name, p.property_type, p.street_address, p.city,
		       p.owner_name, p.owner_contact, p.amenities, p.rules, p.image_url, p.created_at
		FROM tenant_applications a
		JOIN units u ON u.id = a.apartment_id
		JOIN properties p ON p.id = u.property_id
		WHERE a.applicant_user_id=$1
		ORDER BY a.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		var (
			a models.Application
			u models.Unit
			p models.Property
		)
		dest := append(applicationDest(&a), unitDest(&u)...)
		dest = append(dest, propertyDest(&p)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		u.Property = &p
		a.Apartment = &u
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *applicationRepo) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Application, error) {
	rows, err := r.db.Query(ctx, baseSelectApplication()+" WHERE a.approval_status=$1 ORDER BY a.created_at", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *applicationRepo) UpdateIfVersion(ctx context.Context, a *models.Application, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE tenant_applications
		SET approval_status=$1, conditions=$2, move_in_date=$3, lease_end_date=$4,
		    emergency_contact_name=$5, emergency_contact_phone=$6, emergency_relationship=$7,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$8 AND row_version=$9
	`,
		a.ApprovalStatus, a.Conditions, a.MoveInDate, a.LeaseEndDate,
		a.EmergencyContactName, a.EmergencyContactPhone, a.EmergencyRelationship,
		a.ID, expected,
	)
}

func (r *applicationRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Application) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *applicationRepo) DeleteForApplicant(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tenant_applications WHERE id=$1 AND applicant_user_id=$2`, id, userID)
	return err
}

/* ---------- internals ---------- */

const applicationColumns = `
		a.id, a.applicant_user_id, a.apartment_id, a.approval_status, a.conditions,
		a.move_in_date, a.lease_end_date, a.applicant_title, a.employment_status,
		a.employer_name, a.household_size,
		a.emergency_contact_name, a.emergency_contact_phone, a.emergency_relationship,
		a.created_at, a.updated_at, a.row_version`

func baseSelectApplication() string {
	return `SELECT` + applicationColumns + ` FROM tenant_applications a`
}

func applicationDest(a *models.Application) []any {
	return []any{
		&a.ID, &a.ApplicantUserID, &a.ApartmentID, &a.ApprovalStatus, &a.Conditions,
		&a.MoveInDate, &a.LeaseEndDate, &a.ApplicantTitle, &a.EmploymentStatus,
		&a.EmployerName, &a.HouseholdSize,
		&a.EmergencyContactName, &a.EmergencyContactPhone, &a.EmergencyRelationship,
		&a.CreatedAt, &a.UpdatedAt, &a.RowVersion,
	}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(applicationDest(&a)...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
