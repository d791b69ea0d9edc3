package testhelpers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

// SeedUnit stores a property with one unit in the given state.
func (s *MemStore) SeedUnit(status models.OccupancyStatus) models.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Property{
		ID: uuid.New(), Name: "Palm Court", PropertyType: "apartment",
		StreetAddress: "12 Palm Rd", City: "Accra", CreatedAt: time.Now(),
	}
	s.properties[p.ID] = p

	u := models.Unit{
		Versioned:       models.Versioned{RowVersion: 1},
		ID:              uuid.New(),
		PropertyID:      p.ID,
		UnitLabel:       "A" + uuid.NewString()[:3],
		MonthlyRent:     decimal.NewFromInt(1200),
		OccupancyStatus: status,
		BedroomCount:    2,
		BathroomCount:   1,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	s.units[u.ID] = u
	return u
}

// SeedUser stores a user with no tenancy link.
func (s *MemStore) SeedUser(name string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{
		Versioned:   models.Versioned{RowVersion: 1},
		ID:          uuid.New(),
		Name:        name,
		Email:       uuid.NewString()[:8] + "@example.com",
		PhoneNumber: "+233200000000",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.users[u.ID] = u
	return u
}

// PutApplication stores a as given, replacing any existing row.
func (s *MemStore) PutApplication(a models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.RowVersion == 0 {
		a.RowVersion = 1
	}
	s.applications[a.ID] = a
}

// PutTenancy stores t as given, replacing any existing row.
func (s *MemStore) PutTenancy(t models.Tenancy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.RowVersion == 0 {
		t.RowVersion = 1
	}
	s.tenancies[t.ID] = t
}

// PutPayment appends p.
func (s *MemStore) PutPayment(p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, p)
}
