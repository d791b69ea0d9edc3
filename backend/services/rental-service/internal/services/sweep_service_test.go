package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-testhelpers"
)

func TestReconcileOccupancy(t *testing.T) {
	store := testhelpers.NewMemStore()
	user := store.SeedUser("Ama")
	drifted := store.SeedUnit(models.OccupancyAvailable)
	store.PutTenancy(models.Tenancy{
		ID: uuid.New(), UserID: user.ID, ApartmentID: drifted.ID,
		LeaseStartDate: day("2025-06-01"), LeaseEndDate: day("2026-06-01"),
	})
	signed := store.SeedUnit(models.OccupancyAvailable)
	store.PutTenancy(models.Tenancy{
		ID: uuid.New(), UserID: user.ID, ApartmentID: signed.ID,
		LeaseStartDate: day("2025-12-01"), LeaseEndDate: day("2026-12-01"),
	})
	expired := store.SeedUnit(models.OccupancyAvailable)
	store.PutTenancy(models.Tenancy{
		ID: uuid.New(), UserID: user.ID, ApartmentID: expired.ID,
		LeaseStartDate: day("2023-06-01"), LeaseEndDate: day("2024-06-01"),
	})
	repairs := store.SeedUnit(models.OccupancyMaintenance)
	store.PutTenancy(models.Tenancy{
		ID: uuid.New(), UserID: user.ID, ApartmentID: repairs.ID,
		LeaseStartDate: day("2025-01-01"), LeaseEndDate: day("2026-01-01"),
	})

	spy := &spyApartments{}
	svc := NewSweepService(store.UnitRepo(), store.PaymentRepo(), spy).(*sweepService)
	svc.now = func() time.Time { return day("2025-09-10") }

	require.NoError(t, svc.ReconcileOccupancy(context.Background()))
	u, _ := store.Unit(drifted.ID)
	assert.Equal(t, models.OccupancyOccupied, u.OccupancyStatus)
	u, _ = store.Unit(signed.ID)
	assert.Equal(t, models.OccupancyOccupied, u.OccupancyStatus, "a lease that has not started still holds the unit")
	u, _ = store.Unit(expired.ID)
	assert.Equal(t, models.OccupancyAvailable, u.OccupancyStatus)
	u, _ = store.Unit(repairs.ID)
	assert.Equal(t, models.OccupancyMaintenance, u.OccupancyStatus)
	assert.Equal(t, 1, spy.invalidated)

	require.NoError(t, svc.ReconcileOccupancy(context.Background()))
	assert.Equal(t, 1, spy.invalidated, "nothing left to repair")
}

func TestMarkOverdue(t *testing.T) {
	store := testhelpers.NewMemStore()
	tenancyID := uuid.New()
	pay := func(status models.PaymentStatus, due string) {
		store.PutPayment(models.Payment{
			ID: uuid.New(), TenancyID: tenancyID, Month: due[:7],
			Amount: decimal.NewFromInt(500), Method: models.PaymentMethodCash,
			Status: status, DueDate: day(due),
		})
	}
	pay(models.PaymentPending, "2025-08-01")
	pay(models.PaymentPending, "2025-09-10")
	pay(models.PaymentPaid, "2025-07-01")

	svc := NewSweepService(store.UnitRepo(), store.PaymentRepo(), &spyApartments{}).(*sweepService)
	svc.now = func() time.Time { return time.Date(2025, 9, 10, 18, 30, 0, 0, time.UTC) }
	require.NoError(t, svc.MarkOverdue(context.Background()))

	got := map[string]models.PaymentStatus{}
	for _, p := range store.Payments() {
		got[p.DueDate.Format("2006-01-02")] = p.Status
	}
	assert.Equal(t, models.PaymentOverdue, got["2025-08-01"])
	assert.Equal(t, models.PaymentPending, got["2025-09-10"], "due today is not overdue yet")
	assert.Equal(t, models.PaymentPaid, got["2025-07-01"])
}
