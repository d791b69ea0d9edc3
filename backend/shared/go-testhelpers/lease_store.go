package testhelpers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
)

// LeaseStore returns a LeaseStore whose transactions are serialised and
// restore a snapshot of the store when fn fails.
func (s *MemStore) LeaseStore() repositories.LeaseStore { return memLeaseStore{s} }

type memLeaseStore struct{ s *MemStore }

func (l memLeaseStore) InTx(ctx context.Context, fn func(repositories.LeaseTx) error) error {
	l.s.txMu.Lock()
	defer l.s.txMu.Unlock()

	snap := l.s.snapshot()
	if err := fn(memLeaseTx{l.s}); err != nil {
		l.s.restore(snap)
		return err
	}
	return nil
}

type memLeaseTx struct{ s *MemStore }

func (t memLeaseTx) LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	a, ok := t.s.applications[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (t memLeaseTx) InsertTenancy(ctx context.Context, ten *models.Tenancy) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.Faults.InsertTenancy != nil {
		return t.s.Faults.InsertTenancy
	}
	t.s.Writes++
	ten.RowVersion = 1
	ten.CreatedAt = time.Now()
	ten.UpdatedAt = ten.CreatedAt
	t.s.tenancies[ten.ID] = *ten
	return nil
}

func (t memLeaseTx) LinkUserTenancy(ctx context.Context, userID, tenancyID uuid.UUID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.Faults.LinkUserTenancy != nil {
		return t.s.Faults.LinkUserTenancy
	}
	u, ok := t.s.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	t.s.Writes++
	id := tenancyID
	u.TenancyID = &id
	u.RowVersion++
	t.s.users[userID] = u
	return nil
}

func (t memLeaseTx) MarkUnitOccupied(ctx context.Context, unitID uuid.UUID) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.Faults.MarkUnitOccupied != nil {
		return false, t.s.Faults.MarkUnitOccupied
	}
	u, ok := t.s.units[unitID]
	if !ok || u.OccupancyStatus != models.OccupancyAvailable {
		return false, nil
	}
	t.s.Writes++
	u.OccupancyStatus = models.OccupancyOccupied
	u.RowVersion++
	t.s.units[unitID] = u
	return true, nil
}

func (t memLeaseTx) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.Faults.DeleteApplication != nil {
		return t.s.Faults.DeleteApplication
	}
	if _, ok := t.s.applications[id]; ok {
		t.s.Writes++
		delete(t.s.applications, id)
	}
	return nil
}
