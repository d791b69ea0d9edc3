//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

func TestAcceptApplication_Commits(t *testing.T) {
	ctx := context.Background()
	unit := createUnit(t, ctx, "itest-")
	user := createUser(t, ctx, "Ama Mensah")
	app := createApprovedApplication(t, ctx, user, unit)

	res, err := newAcceptance().AcceptApplication(ctx, middleware.Session{UserID: user.ID}, app.ID)
	require.NoError(t, err)
	assert.Empty(t, res.WarningCode)

	tenancies, err := repositories.NewTenancyRepository(db).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tenancies, 1)
	assert.Equal(t, res.Tenancy.ID, tenancies[0].ID)
	assert.Equal(t, "Kofi Mensah", tenancies[0].EmergencyContactName)

	u, err := repositories.NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, u.TenancyID)
	assert.Equal(t, res.Tenancy.ID, *u.TenancyID)

	got, err := repositories.NewUnitRepository(db).GetByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OccupancyOccupied, got.OccupancyStatus)

	gone, err := repositories.NewApplicationRepository(db).GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAcceptApplication_UnitTakenRollsBack(t *testing.T) {
	ctx := context.Background()
	unit := createUnit(t, ctx, "itest-")
	user := createUser(t, ctx, "Ama Mensah")
	app := createApprovedApplication(t, ctx, user, unit)
	_, err := db.Exec(ctx, `UPDATE units SET occupancy_status='occupied' WHERE id=$1`, unit.ID)
	require.NoError(t, err)

	res, err := newAcceptance().AcceptApplication(ctx, middleware.Session{UserID: user.ID}, app.ID)
	require.ErrorIs(t, err, services.ErrUnitUnavailable)
	assert.Nil(t, res)

	assert.Zero(t, tenanciesOnUnit(t, ctx, unit.ID))
	u, err := repositories.NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, u.TenancyID)
	still, err := repositories.NewApplicationRepository(db).GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestAcceptApplication_OccupancyErrorKeepsLease(t *testing.T) {
	ctx := context.Background()
	unit := createUnit(t, ctx, lockedUnitPrefix)
	user := createUser(t, ctx, "Ama Mensah")
	app := createApprovedApplication(t, ctx, user, unit)

	res, err := newAcceptance().AcceptApplication(ctx, middleware.Session{UserID: user.ID}, app.ID)
	require.NoError(t, err, "the failed unit update must not poison the transaction")
	assert.Equal(t, utils.WarnCodeUnitNotMarkedOccupied, res.WarningCode)

	assert.Equal(t, 1, tenanciesOnUnit(t, ctx, unit.ID))
	u, err := repositories.NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, u.TenancyID)
	assert.Equal(t, res.Tenancy.ID, *u.TenancyID)

	got, err := repositories.NewUnitRepository(db).GetByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OccupancyAvailable, got.OccupancyStatus)

	gone, err := repositories.NewApplicationRepository(db).GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAcceptApplication_ConcurrentAcceptsForOneUnit(t *testing.T) {
	ctx := context.Background()
	unit := createUnit(t, ctx, "itest-")
	ama := createUser(t, ctx, "Ama Mensah")
	efua := createUser(t, ctx, "Efua Owusu")
	apps := []*models.Application{
		createApprovedApplication(t, ctx, ama, unit),
		createApprovedApplication(t, ctx, efua, unit),
	}
	sessions := []middleware.Session{{UserID: ama.ID}, {UserID: efua.ID}}

	svc := newAcceptance()
	errs := make([]error, len(apps))
	var wg sync.WaitGroup
	for i := range apps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.AcceptApplication(ctx, sessions[i], apps[i].ID)
		}()
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, services.ErrUnitUnavailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 1, tenanciesOnUnit(t, ctx, unit.ID))
}

func TestAcceptApplication_ConcurrentAcceptsOfOneApplication(t *testing.T) {
	ctx := context.Background()
	unit := createUnit(t, ctx, "itest-")
	user := createUser(t, ctx, "Ama Mensah")
	app := createApprovedApplication(t, ctx, user, unit)
	sess := middleware.Session{UserID: user.ID}

	svc := newAcceptance()
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.AcceptApplication(ctx, sess, app.ID)
		}()
	}
	wg.Wait()

	var won, notFound int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, services.ErrApplicationNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, 1, tenanciesOnUnit(t, ctx, unit.ID))
}
