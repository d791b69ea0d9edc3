package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-testhelpers"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// spyApartments counts cache invalidations.
type spyApartments struct {
	ApartmentService
	mu          sync.Mutex
	invalidated int
}

func (s *spyApartments) Invalidate() {
	s.mu.Lock()
	s.invalidated++
	s.mu.Unlock()
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type leaseFixture struct {
	store *testhelpers.MemStore
	spy   *spyApartments
	svc   LeaseAcceptanceService
	unit  models.Unit
	user  models.User
	app   models.Application
	sess  middleware.Session
}

func newLeaseFixture(t *testing.T, status models.ApprovalStatus, conditions ...string) *leaseFixture {
	t.Helper()
	store := testhelpers.NewMemStore()
	unit := store.SeedUnit(models.OccupancyAvailable)
	user := store.SeedUser("Ama Mensah")
	app := models.Application{
		ID:                    uuid.New(),
		ApplicantUserID:       user.ID,
		ApartmentID:           unit.ID,
		ApprovalStatus:        status,
		Conditions:            conditions,
		MoveInDate:            day("2025-06-01"),
		LeaseEndDate:          day("2026-06-01"),
		EmergencyContactName:  "Kofi Mensah",
		EmergencyContactPhone: "+233201234567",
		EmergencyRelationship: "brother",
	}
	store.PutApplication(app)

	spy := &spyApartments{}
	return &leaseFixture{
		store: store,
		spy:   spy,
		svc:   NewLeaseAcceptanceService(store.ApplicationRepo(), store.LeaseStore(), spy),
		unit:  unit,
		user:  user,
		app:   app,
		sess:  middleware.Session{UserID: user.ID},
	}
}

func (f *leaseFixture) assertUntouched(t *testing.T) {
	t.Helper()
	_, stillThere := f.store.Application(f.app.ID)
	assert.True(t, stillThere, "application must survive")
	assert.Empty(t, f.store.TenanciesOf(f.user.ID))
	u, _ := f.store.User(f.user.ID)
	assert.Nil(t, u.TenancyID)
	unit, _ := f.store.Unit(f.unit.ID)
	assert.Equal(t, models.OccupancyAvailable, unit.OccupancyStatus)
	assert.Zero(t, f.spy.invalidated)
}

func TestAcceptApplication_HappyPath(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved)

	res, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Tenancy)
	assert.Empty(t, res.Warning)
	assert.Empty(t, res.WarningCode)

	ten := res.Tenancy
	assert.Equal(t, f.user.ID, ten.UserID)
	assert.Equal(t, f.unit.ID, ten.ApartmentID)
	assert.True(t, ten.LeaseStartDate.Equal(day("2025-06-01")))
	assert.True(t, ten.LeaseEndDate.Equal(day("2026-06-01")))
	assert.Equal(t, "Kofi Mensah", ten.EmergencyContactName)
	assert.Equal(t, "+233201234567", ten.EmergencyContactPhone)
	assert.Equal(t, "brother", ten.EmergencyRelationship)

	stored := f.store.TenanciesOf(f.user.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, ten.ID, stored[0].ID)

	u, _ := f.store.User(f.user.ID)
	require.NotNil(t, u.TenancyID)
	assert.Equal(t, ten.ID, *u.TenancyID)

	unit, _ := f.store.Unit(f.unit.ID)
	assert.Equal(t, models.OccupancyOccupied, unit.OccupancyStatus)

	_, stillThere := f.store.Application(f.app.ID)
	assert.False(t, stillThere, "application must be consumed")
	assert.Equal(t, 1, f.spy.invalidated)
}

func TestAcceptApplication_ConditionalApprovalIsAcceptable(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved, "Six months deposit")

	res, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.NoError(t, err)
	assert.NotNil(t, res.Tenancy)
}

func TestAcceptApplication_PreconditionsWriteNothing(t *testing.T) {
	cases := []struct {
		name    string
		status  models.ApprovalStatus
		tweak   func(f *leaseFixture) (middleware.Session, uuid.UUID)
		wantErr error
	}{
		{
			name:   "unknown application",
			status: models.ApprovalApproved,
			tweak: func(f *leaseFixture) (middleware.Session, uuid.UUID) {
				return f.sess, uuid.New()
			},
			wantErr: ErrApplicationNotFound,
		},
		{
			name:   "someone else's application",
			status: models.ApprovalApproved,
			tweak: func(f *leaseFixture) (middleware.Session, uuid.UUID) {
				return middleware.Session{UserID: uuid.New()}, f.app.ID
			},
			wantErr: ErrApplicationNotOwned,
		},
		{
			name:    "pending application",
			status:  models.ApprovalPending,
			wantErr: ErrApplicationNotApproved,
		},
		{
			name:    "rejected application",
			status:  models.ApprovalRejected,
			wantErr: ErrApplicationNotApproved,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLeaseFixture(t, tc.status)
			sess, id := f.sess, f.app.ID
			if tc.tweak != nil {
				sess, id = tc.tweak(f)
			}

			res, err := f.svc.AcceptApplication(context.Background(), sess, id)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, res)
			assert.Zero(t, f.store.Writes)
			f.assertUntouched(t)
		})
	}
}

func TestAcceptApplication_UnitTakenRollsBack(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved)
	other := f.store.SeedUser("Efua")
	rival := models.Application{
		ID:              uuid.New(),
		ApplicantUserID: other.ID,
		ApartmentID:     f.unit.ID,
		ApprovalStatus:  models.ApprovalApproved,
		MoveInDate:      day("2025-06-01"),
		LeaseEndDate:    day("2026-06-01"),
	}
	f.store.PutApplication(rival)

	_, err := f.svc.AcceptApplication(context.Background(), middleware.Session{UserID: other.ID}, rival.ID)
	require.NoError(t, err)
	f.spy.invalidated = 0

	res, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.ErrorIs(t, err, ErrUnitUnavailable)
	assert.Nil(t, res)

	_, stillThere := f.store.Application(f.app.ID)
	assert.True(t, stillThere)
	assert.Empty(t, f.store.TenanciesOf(f.user.ID))
	u, _ := f.store.User(f.user.ID)
	assert.Nil(t, u.TenancyID)
	assert.Zero(t, f.spy.invalidated)
}

func TestAcceptApplication_MarkOccupiedFailureKeepsLease(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved)
	f.store.Faults.MarkUnitOccupied = errors.New("permission denied for table units")

	res, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.NoError(t, err)
	assert.Equal(t, WarningUnitNotMarkedOccupied, res.Warning)
	assert.Equal(t, utils.WarnCodeUnitNotMarkedOccupied, res.WarningCode)

	require.Len(t, f.store.TenanciesOf(f.user.ID), 1)
	u, _ := f.store.User(f.user.ID)
	require.NotNil(t, u.TenancyID)
	assert.Equal(t, res.Tenancy.ID, *u.TenancyID)

	unit, _ := f.store.Unit(f.unit.ID)
	assert.Equal(t, models.OccupancyAvailable, unit.OccupancyStatus)

	_, stillThere := f.store.Application(f.app.ID)
	assert.False(t, stillThere)
	assert.Equal(t, 1, f.spy.invalidated)
}

func TestAcceptApplication_SweepClosesUnitBeforeMoveIn(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved)
	f.store.Faults.MarkUnitOccupied = errors.New("permission denied for table units")

	res, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.NoError(t, err)
	require.Equal(t, utils.WarnCodeUnitNotMarkedOccupied, res.WarningCode)
	f.store.Faults.MarkUnitOccupied = nil

	sweep := NewSweepService(f.store.UnitRepo(), f.store.PaymentRepo(), f.spy).(*sweepService)
	sweep.now = func() time.Time { return day("2025-05-01") }
	require.NoError(t, sweep.ReconcileOccupancy(context.Background()))
	unit, _ := f.store.Unit(f.unit.ID)
	require.Equal(t, models.OccupancyOccupied, unit.OccupancyStatus)

	other := f.store.SeedUser("Efua")
	rival := models.Application{
		ID:              uuid.New(),
		ApplicantUserID: other.ID,
		ApartmentID:     f.unit.ID,
		ApprovalStatus:  models.ApprovalApproved,
		MoveInDate:      day("2025-06-01"),
		LeaseEndDate:    day("2026-06-01"),
	}
	f.store.PutApplication(rival)

	_, err = f.svc.AcceptApplication(context.Background(), middleware.Session{UserID: other.ID}, rival.ID)
	require.ErrorIs(t, err, ErrUnitUnavailable)
	assert.Empty(t, f.store.TenanciesOf(other.ID))
}

func TestAcceptApplication_WriteFailuresRollBack(t *testing.T) {
	boom := errors.New("connection reset")
	cases := []struct {
		name  string
		fault func(*testhelpers.Faults)
	}{
		{"insert tenancy", func(fl *testhelpers.Faults) { fl.InsertTenancy = boom }},
		{"link user", func(fl *testhelpers.Faults) { fl.LinkUserTenancy = boom }},
		{"delete application", func(fl *testhelpers.Faults) { fl.DeleteApplication = boom }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLeaseFixture(t, models.ApprovalApproved)
			tc.fault(&f.store.Faults)

			res, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
			require.ErrorIs(t, err, boom)
			assert.Nil(t, res)
			f.assertUntouched(t)
		})
	}
}

func TestAcceptApplication_SecondAcceptFindsNothing(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved)

	_, err := f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.NoError(t, err)

	_, err = f.svc.AcceptApplication(context.Background(), f.sess, f.app.ID)
	require.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Len(t, f.store.TenanciesOf(f.user.ID), 1)
}

func TestAcceptApplication_ConcurrentAcceptsOneWinner(t *testing.T) {
	f := newLeaseFixture(t, models.ApprovalApproved)
	other := f.store.SeedUser("Efua")
	rival := models.Application{
		ID:              uuid.New(),
		ApplicantUserID: other.ID,
		ApartmentID:     f.unit.ID,
		ApprovalStatus:  models.ApprovalApproved,
		MoveInDate:      day("2025-07-01"),
		LeaseEndDate:    day("2026-07-01"),
	}
	f.store.PutApplication(rival)

	type attempt struct {
		sess middleware.Session
		id   uuid.UUID
	}
	attempts := []attempt{{f.sess, f.app.ID}, {middleware.Session{UserID: other.ID}, rival.ID}}
	errs := make([]error, len(attempts))

	var wg sync.WaitGroup
	for i, a := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.AcceptApplication(context.Background(), a.sess, a.id)
		}()
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrUnitUnavailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Len(t, append(f.store.TenanciesOf(f.user.ID), f.store.TenanciesOf(other.ID)...), 1)
}
