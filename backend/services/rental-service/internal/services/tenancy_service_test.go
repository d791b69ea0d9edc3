package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-testhelpers"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

func TestTenancyDetails(t *testing.T) {
	store := testhelpers.NewMemStore()
	user := store.SeedUser("Ama")
	ten := seedTenancy(store, user)
	svc := NewTenancyService(store.TenancyRepo(), store.UserRepo(), store.UnitRepo())
	sess := middleware.Session{UserID: user.ID}

	mine, err := svc.ListMine(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	d, err := svc.Details(context.Background(), sess, ten.ID)
	require.NoError(t, err)
	assert.Equal(t, ten.ID, d.Tenancy.ID)
	assert.Equal(t, user.Email, d.Tenant.Email)
	require.NotNil(t, d.Unit)
	require.NotNil(t, d.Unit.Property)
	assert.Equal(t, "12 Palm Rd, Accra", d.Unit.Property.Location())

	_, err = svc.Details(context.Background(), middleware.Session{UserID: uuid.New()}, ten.ID)
	require.ErrorIs(t, err, ErrTenancyNotFound)

	_, err = svc.Details(context.Background(), sess, uuid.New())
	require.ErrorIs(t, err, ErrTenancyNotFound)
}

func TestUpdateTenancyDetails(t *testing.T) {
	store := testhelpers.NewMemStore()
	user := store.SeedUser("Ama")
	ten := seedTenancy(store, user)
	svc := NewTenancyService(store.TenancyRepo(), store.UserRepo(), store.UnitRepo())
	sess := middleware.Session{UserID: user.ID}

	d, err := svc.UpdateDetails(context.Background(), sess, ten.ID, dtos.UpdateTenancyRequest{
		Name:                 utils.Ptr(" Ama Owusu "),
		Email:                utils.Ptr("Ama.Owusu@Example.com"),
		EmergencyContactName: utils.Ptr("Yaw"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ama Owusu", d.Tenant.Name)
	assert.Equal(t, "ama.owusu@example.com", d.Tenant.Email)
	assert.Equal(t, "Yaw", d.Tenancy.EmergencyContactName)
	assert.Equal(t, user.PhoneNumber, d.Tenant.PhoneNumber, "untouched fields keep their value")
}

func TestUpdateTenancyDetails_EmailTaken(t *testing.T) {
	store := testhelpers.NewMemStore()
	user := store.SeedUser("Ama")
	other := store.SeedUser("Efua")
	ten := seedTenancy(store, user)
	svc := NewTenancyService(store.TenancyRepo(), store.UserRepo(), store.UnitRepo())

	_, err := svc.UpdateDetails(context.Background(), middleware.Session{UserID: user.ID}, ten.ID,
		dtos.UpdateTenancyRequest{Email: utils.Ptr(other.Email)})
	require.ErrorIs(t, err, utils.ErrEmailExists)
}
