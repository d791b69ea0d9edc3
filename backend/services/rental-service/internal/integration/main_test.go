//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/app"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-migrations"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

var db *pgxpool.Pool

// Units labelled with this prefix reject every UPDATE, which makes the
// occupancy step of an acceptance fail inside its savepoint.
const lockedUnitPrefix = "itest-locked-"

const lockedUnitTrigger = `
CREATE OR REPLACE FUNCTION itest_reject_locked_units() RETURNS trigger AS $$
BEGIN
    IF OLD.unit_label LIKE 'itest-locked-%' THEN
        RAISE EXCEPTION 'unit % is locked for writes', OLD.id;
    END IF;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;
DROP TRIGGER IF EXISTS itest_reject_locked_units ON units;
CREATE TRIGGER itest_reject_locked_units BEFORE UPDATE ON units
    FOR EACH ROW EXECUTE FUNCTION itest_reject_locked_units();
`

const dropLockedUnitTrigger = `
DROP TRIGGER IF EXISTS itest_reject_locked_units ON units;
DROP FUNCTION IF EXISTS itest_reject_locked_units();
`

func TestMain(m *testing.M) {
	utils.InitLogger("rental-service-integration")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("DATABASE_URL not set; skipping rental-service integration tests")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := migrations.Up(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := app.NewDBPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	db = pool
	if _, err := db.Exec(ctx, lockedUnitTrigger); err != nil {
		log.Fatalf("install locked-unit trigger: %v", err)
	}

	code := m.Run()

	if _, err := db.Exec(context.Background(), dropLockedUnitTrigger); err != nil {
		log.Printf("drop locked-unit trigger: %v", err)
	}
	db.Close()
	os.Exit(code)
}

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

func newAcceptance() services.LeaseAcceptanceService {
	units := repositories.NewUnitRepository(db)
	return services.NewLeaseAcceptanceService(
		repositories.NewApplicationRepository(db),
		repositories.NewLeaseStore(db),
		services.NewApartmentService(units, nil, 0),
	)
}

func createUnit(t *testing.T, ctx context.Context, label string) *models.Unit {
	t.Helper()

	prop := &models.Property{ID: uuid.New(), Name: "Integration Court", PropertyType: "apartment"}
	require.NoError(t, repositories.NewPropertyRepository(db).Create(ctx, prop))

	unit := &models.Unit{
		ID:              uuid.New(),
		PropertyID:      prop.ID,
		UnitLabel:       fmt.Sprintf("%s%s", label, uuid.NewString()[:8]),
		MonthlyRent:     decimal.NewFromInt(1200),
		OccupancyStatus: models.OccupancyAvailable,
	}
	require.NoError(t, repositories.NewUnitRepository(db).Create(ctx, unit))
	return unit
}

func createUser(t *testing.T, ctx context.Context, name string) *models.User {
	t.Helper()

	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        fmt.Sprintf("itest-%s@ebh.test", uuid.NewString()),
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(ctx, u))
	return u
}

func createApprovedApplication(t *testing.T, ctx context.Context, user *models.User, unit *models.Unit) *models.Application {
	t.Helper()

	a := &models.Application{
		ID:                    uuid.New(),
		ApplicantUserID:       user.ID,
		ApartmentID:           unit.ID,
		ApprovalStatus:        models.ApprovalApproved,
		MoveInDate:            time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		LeaseEndDate:          time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EmergencyContactName:  "Kofi Mensah",
		EmergencyContactPhone: "+233201234567",
		EmergencyRelationship: "brother",
	}
	require.NoError(t, repositories.NewApplicationRepository(db).Create(ctx, a))
	return a
}

// insertTenancy writes a lease row directly, bypassing acceptance.
func insertTenancy(t *testing.T, ctx context.Context, user *models.User, unit *models.Unit, start, end time.Time) {
	t.Helper()

	_, err := db.Exec(ctx, `
		INSERT INTO tenancies (id, user_id, apartment_id, lease_start_date, lease_end_date)
		VALUES ($1,$2,$3,$4,$5)
	`, uuid.New(), user.ID, unit.ID, start, end)
	require.NoError(t, err)
}

func tenanciesOnUnit(t *testing.T, ctx context.Context, unitID uuid.UUID) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT count(*) FROM tenancies WHERE apartment_id=$1`, unitID).Scan(&n))
	return n
}
