package services

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// ListingCache holds apartment listings keyed by status filter.
type ListingCache interface {
	Get(key string) ([]*models.Unit, bool)
	SetWithTTL(key string, units []*models.Unit, cost int64, ttl time.Duration) bool
	Clear()
}

// NewListingCache builds the in-process ristretto cache used for listings.
// Each status filter costs 1, so internal item overhead is not counted.
func NewListingCache() (*ristretto.Cache[string, []*models.Unit], error) {
	return ristretto.NewCache(&ristretto.Config[string, []*models.Unit]{
		NumCounters:        1_000,
		MaxCost:            100,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
}

const listAll = "all"

// ApartmentService serves the unit catalogue.
type ApartmentService interface {
	// List returns units with their property. status is "all" or an
	// occupancy status.
	List(ctx context.Context, status string) ([]*models.Unit, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	// Invalidate drops cached listings after occupancy changes.
	Invalidate()
}

type apartmentService struct {
	units repositories.UnitRepository
	cache ListingCache
	ttl   time.Duration
}

func NewApartmentService(units repositories.UnitRepository, cache ListingCache, ttl time.Duration) ApartmentService {
	return &apartmentService{units: units, cache: cache, ttl: ttl}
}

func (s *apartmentService) List(ctx context.Context, status string) ([]*models.Unit, error) {
	if status == "" {
		status = listAll
	}
	var filter *models.OccupancyStatus
	if status != listAll {
		st := models.OccupancyStatus(status)
		if !st.Valid() {
			return nil, invalid("status", "must be all, available, occupied or maintenance")
		}
		filter = &st
	}

	if s.cache != nil {
		if units, ok := s.cache.Get(status); ok {
			return units, nil
		}
	}

	units, err := s.units.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetWithTTL(status, units, 1, s.ttl)
	}
	return units, nil
}

func (s *apartmentService) Get(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := s.units.GetWithProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnitNotFound
	}
	return u, nil
}

func (s *apartmentService) Invalidate() {
	if s.cache != nil {
		s.cache.Clear()
		utils.Logger.Debug("apartment listing cache cleared")
	}
}
