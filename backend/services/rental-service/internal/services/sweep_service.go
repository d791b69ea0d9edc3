package services

import (
	"context"
	"time"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// SweepService repairs state that request handlers may leave behind.
type SweepService interface {
	// ReconcileOccupancy marks units with a running tenancy as occupied.
	ReconcileOccupancy(ctx context.Context) error
	// MarkOverdue flags pending payments whose due date has passed.
	MarkOverdue(ctx context.Context) error
}

type sweepService struct {
	units      repositories.UnitRepository
	payments   repositories.PaymentRepository
	apartments ApartmentService
	now        func() time.Time
}

func NewSweepService(
	units repositories.UnitRepository,
	payments repositories.PaymentRepository,
	apartments ApartmentService,
) SweepService {
	return &sweepService{units: units, payments: payments, apartments: apartments, now: time.Now}
}

func (s *sweepService) ReconcileOccupancy(ctx context.Context) error {
	n, err := s.units.ReconcileOccupancy(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		s.apartments.Invalidate()
		utils.Logger.Warnf("occupancy sweep repaired %d unit(s)", n)
	}
	return nil
}

func (s *sweepService) MarkOverdue(ctx context.Context) error {
	today := s.now().UTC().Truncate(24 * time.Hour)
	n, err := s.payments.MarkOverdue(ctx, today)
	if err != nil {
		return err
	}
	utils.Logger.Infof("overdue sweep flagged %d payment(s)", n)
	return nil
}
