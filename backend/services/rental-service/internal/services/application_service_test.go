package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-testhelpers"
)

func validApplication() dtos.SubmitApplicationRequest {
	return dtos.SubmitApplicationRequest{
		ApplicantTitle:   "Ms",
		EmploymentStatus: "employed",
		EmployerName:     "Volta Foods",
		HouseholdSize:    2,
		MoveInDate:       dtos.NewDate(day("2025-06-01")),
		LeaseEndDate:     dtos.NewDate(day("2026-06-01")),
	}
}

func TestSubmitApplication(t *testing.T) {
	store := testhelpers.NewMemStore()
	unit := store.SeedUnit(models.OccupancyAvailable)
	user := store.SeedUser("Ama")
	svc := NewApplicationService(store.ApplicationRepo(), store.UnitRepo())
	sess := middleware.Session{UserID: user.ID}

	req := validApplication()
	req.EmployerName = "  Volta Foods "
	app, err := svc.Submit(context.Background(), sess, unit.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, app.ApprovalStatus)
	assert.Equal(t, "Volta Foods", app.EmployerName)
	assert.Equal(t, models.DisplayPending, app.DisplayStatus())

	mine, err := svc.ListMine(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)
	require.NotNil(t, mine[0].Apartment)
}

func TestSubmitApplication_Rejections(t *testing.T) {
	store := testhelpers.NewMemStore()
	free := store.SeedUnit(models.OccupancyAvailable)
	taken := store.SeedUnit(models.OccupancyOccupied)
	svc := NewApplicationService(store.ApplicationRepo(), store.UnitRepo())
	sess := middleware.Session{UserID: uuid.New()}

	backwards := validApplication()
	backwards.LeaseEndDate = dtos.NewDate(day("2025-05-01"))
	_, err := svc.Submit(context.Background(), sess, free.ID, backwards)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "lease_end_date", ve.Field)

	noStart := validApplication()
	noStart.MoveInDate = dtos.Date{}
	_, err = svc.Submit(context.Background(), sess, free.ID, noStart)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "move_in_date", ve.Field)

	_, err = svc.Submit(context.Background(), sess, taken.ID, validApplication())
	require.ErrorIs(t, err, ErrUnitUnavailable)

	_, err = svc.Submit(context.Background(), sess, uuid.New(), validApplication())
	require.ErrorIs(t, err, ErrUnitNotFound)

	assert.Zero(t, store.Writes)
}

func TestWithdrawApplication_Idempotent(t *testing.T) {
	store := testhelpers.NewMemStore()
	unit := store.SeedUnit(models.OccupancyAvailable)
	user := store.SeedUser("Ama")
	svc := NewApplicationService(store.ApplicationRepo(), store.UnitRepo())
	sess := middleware.Session{UserID: user.ID}

	app, err := svc.Submit(context.Background(), sess, unit.ID, validApplication())
	require.NoError(t, err)

	// A stranger cannot remove it.
	require.NoError(t, svc.Withdraw(context.Background(), middleware.Session{UserID: uuid.New()}, app.ID))
	_, ok := store.Application(app.ID)
	require.True(t, ok)

	require.NoError(t, svc.Withdraw(context.Background(), sess, app.ID))
	require.NoError(t, svc.Withdraw(context.Background(), sess, app.ID))
	_, ok = store.Application(app.ID)
	assert.False(t, ok)
}

func TestDecideApplication(t *testing.T) {
	store := testhelpers.NewMemStore()
	unit := store.SeedUnit(models.OccupancyAvailable)
	svc := NewApplicationService(store.ApplicationRepo(), store.UnitRepo())
	app := models.Application{ID: uuid.New(), ApplicantUserID: uuid.New(), ApartmentID: unit.ID,
		ApprovalStatus: models.ApprovalPending}
	store.PutApplication(app)

	decided, err := svc.Decide(context.Background(), app.ID, models.ApprovalApproved,
		[]string{"Guarantor letter", "Guarantor letter", "Deposit"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Guarantor letter", "Deposit"}, decided.Conditions)
	assert.Equal(t, models.DisplayApprovedConditionally, decided.DisplayStatus())

	decided, err = svc.Decide(context.Background(), app.ID, models.ApprovalRejected, []string{"ignored"})
	require.NoError(t, err)
	assert.Empty(t, decided.Conditions)
	stored, _ := store.Application(app.ID)
	assert.Equal(t, models.ApprovalRejected, stored.ApprovalStatus)
	assert.Equal(t, int64(3), stored.RowVersion)

	_, err = svc.Decide(context.Background(), app.ID, models.ApprovalPending, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.Decide(context.Background(), uuid.New(), models.ApprovalApproved, nil)
	require.ErrorIs(t, err, ErrApplicationNotFound)
}
