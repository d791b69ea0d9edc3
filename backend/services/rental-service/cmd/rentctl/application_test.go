package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-testhelpers"
)

func TestDecideApplication(t *testing.T) {
	store := testhelpers.NewMemStore()
	unit := store.SeedUnit(models.OccupancyAvailable)
	app := models.Application{ID: uuid.New(), ApplicantUserID: uuid.New(), ApartmentID: unit.ID}
	store.PutApplication(app)
	svc := services.NewApplicationService(store.ApplicationRepo(), store.UnitRepo())

	var out bytes.Buffer
	err := decideApplication(context.Background(), svc, &out, app.ID.String(), true, false,
		[]string{"Three months deposit"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "approved conditionally")
	assert.Contains(t, out.String(), "- Three months deposit")

	stored, _ := store.Application(app.ID)
	assert.Equal(t, models.ApprovalApproved, stored.ApprovalStatus)

	out.Reset()
	require.NoError(t, decideApplication(context.Background(), svc, &out, app.ID.String(), false, true, nil))
	assert.Contains(t, out.String(), "is now rejected")
}

func TestDecideApplication_BadInput(t *testing.T) {
	store := testhelpers.NewMemStore()
	svc := services.NewApplicationService(store.ApplicationRepo(), store.UnitRepo())
	var out bytes.Buffer

	require.Error(t, decideApplication(context.Background(), svc, &out, "not-a-uuid", true, false, nil))
	require.Error(t, decideApplication(context.Background(), svc, &out, uuid.NewString(), true, true, nil))
	require.Error(t, decideApplication(context.Background(), svc, &out, uuid.NewString(), false, true, []string{"x"}))

	err := decideApplication(context.Background(), svc, &out, uuid.NewString(), true, false, nil)
	require.ErrorIs(t, err, services.ErrApplicationNotFound)
	assert.Zero(t, store.Writes)
}

func TestListApplications(t *testing.T) {
	store := testhelpers.NewMemStore()
	unit := store.SeedUnit(models.OccupancyAvailable)
	pending := models.Application{ID: uuid.New(), ApplicantUserID: uuid.New(), ApartmentID: unit.ID,
		ApprovalStatus: models.ApprovalPending}
	approved := models.Application{ID: uuid.New(), ApplicantUserID: uuid.New(), ApartmentID: unit.ID,
		ApprovalStatus: models.ApprovalApproved, Conditions: []string{"Guarantor"}}
	store.PutApplication(pending)
	store.PutApplication(approved)

	var out bytes.Buffer
	require.NoError(t, listApplications(context.Background(), store.ApplicationRepo(), &out, "pending"))
	assert.Contains(t, out.String(), pending.ID.String())
	assert.NotContains(t, out.String(), approved.ID.String())

	out.Reset()
	require.NoError(t, listApplications(context.Background(), store.ApplicationRepo(), &out, "approved"))
	assert.Contains(t, out.String(), "Guarantor")

	require.Error(t, listApplications(context.Background(), store.ApplicationRepo(), &out, "maybe"))
}
