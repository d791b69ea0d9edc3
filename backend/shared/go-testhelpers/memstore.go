// Package testhelpers provides in-memory stand-ins for the repositories
// and gateways so service and controller tests run without Postgres.
package testhelpers

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

// Faults lets a test make a specific store call fail.
type Faults struct {
	InsertTenancy     error
	LinkUserTenancy   error
	MarkUnitOccupied  error
	DeleteApplication error
	CreateCase        error
	CreatePayment     error
	ListUnits         error
}

// MemStore holds every table in maps guarded by one mutex. Writes counts
// mutating calls so tests can assert that nothing was written.
type MemStore struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	Faults Faults
	Writes int

	properties   map[uuid.UUID]models.Property
	units        map[uuid.UUID]models.Unit
	applications map[uuid.UUID]models.Application
	tenancies    map[uuid.UUID]models.Tenancy
	users        map[uuid.UUID]models.User
	cases        []models.MaintenanceCase
	payments     []models.Payment
}

func NewMemStore() *MemStore {
	return &MemStore{
		properties:   map[uuid.UUID]models.Property{},
		units:        map[uuid.UUID]models.Unit{},
		applications: map[uuid.UUID]models.Application{},
		tenancies:    map[uuid.UUID]models.Tenancy{},
		users:        map[uuid.UUID]models.User{},
	}
}

type snapshot struct {
	units        map[uuid.UUID]models.Unit
	applications map[uuid.UUID]models.Application
	tenancies    map[uuid.UUID]models.Tenancy
	users        map[uuid.UUID]models.User
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MemStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		units:        cloneMap(s.units),
		applications: cloneMap(s.applications),
		tenancies:    cloneMap(s.tenancies),
		users:        cloneMap(s.users),
	}
}

func (s *MemStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = snap.units
	s.applications = snap.applications
	s.tenancies = snap.tenancies
	s.users = snap.users
}

func tag(rows int) pgconn.CommandTag {
	if rows == 1 {
		return pgconn.CommandTag("UPDATE 1")
	}
	return pgconn.CommandTag("UPDATE 0")
}

// ------------------------------------------------------------------
// Inspection helpers
// ------------------------------------------------------------------

func (s *MemStore) Unit(id uuid.UUID) (models.Unit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	return u, ok
}

func (s *MemStore) Application(id uuid.UUID) (models.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	return a, ok
}

func (s *MemStore) User(id uuid.UUID) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *MemStore) TenanciesOf(userID uuid.UUID) []models.Tenancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Tenancy
	for _, t := range s.tenancies {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (s *MemStore) Cases() []models.MaintenanceCase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MaintenanceCase(nil), s.cases...)
}

func (s *MemStore) Payments() []models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Payment(nil), s.payments...)
}
