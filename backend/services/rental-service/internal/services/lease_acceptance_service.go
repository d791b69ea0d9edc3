package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// AcceptanceResult is the outcome of a successful acceptance. Warning is
// set when the lease exists but the unit could not be marked occupied.
type AcceptanceResult struct {
	Tenancy     *models.Tenancy
	Warning     string
	WarningCode string
}

// LeaseAcceptanceService turns an approved application into a tenancy.
type LeaseAcceptanceService interface {
	AcceptApplication(ctx context.Context, sess middleware.Session, applicationID uuid.UUID) (*AcceptanceResult, error)
}

type leaseAcceptanceService struct {
	applications repositories.ApplicationRepository
	leases       repositories.LeaseStore
	apartments   ApartmentService
	now          func() time.Time
}

func NewLeaseAcceptanceService(
	applications repositories.ApplicationRepository,
	leases repositories.LeaseStore,
	apartments ApartmentService,
) LeaseAcceptanceService {
	return &leaseAcceptanceService{
		applications: applications,
		leases:       leases,
		apartments:   apartments,
		now:          time.Now,
	}
}

// checkAcceptable enforces ownership and approval.
func checkAcceptable(app *models.Application, userID uuid.UUID) error {
	if app == nil {
		return ErrApplicationNotFound
	}
	if app.ApplicantUserID != userID {
		return ErrApplicationNotOwned
	}
	if app.ApprovalStatus != models.ApprovalApproved {
		return ErrApplicationNotApproved
	}
	return nil
}

// AcceptApplication creates the tenancy, links it to the caller, marks
// the unit occupied and removes the application in one transaction.
// Nothing is written unless the application is the caller's and approved.
// A unit that is no longer available aborts everything with
// ErrUnitUnavailable. A failure while marking the unit is not fatal: the
// lease is kept and the result carries WarningUnitNotMarkedOccupied.
func (s *leaseAcceptanceService) AcceptApplication(
	ctx context.Context,
	sess middleware.Session,
	applicationID uuid.UUID,
) (*AcceptanceResult, error) {
	log := utils.Logger.WithFields(logrus.Fields{
		"application_id": applicationID,
		"user_id":        sess.UserID,
	})

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := checkAcceptable(app, sess.UserID); err != nil {
		return nil, err
	}

	result := &AcceptanceResult{}
	err = s.leases.InTx(ctx, func(tx repositories.LeaseTx) error {
		locked, err := tx.LockApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		if err := checkAcceptable(locked, sess.UserID); err != nil {
			return err
		}

		now := s.now().UTC()
		tenancy := &models.Tenancy{
			ID:                    uuid.New(),
			UserID:                sess.UserID,
			ApartmentID:           locked.ApartmentID,
			LeaseStartDate:        locked.MoveInDate,
			LeaseEndDate:          locked.LeaseEndDate,
			EmergencyContactName:  locked.EmergencyContactName,
			EmergencyContactPhone: locked.EmergencyContactPhone,
			EmergencyRelationship: locked.EmergencyRelationship,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := tx.InsertTenancy(ctx, tenancy); err != nil {
			return fmt.Errorf("create tenancy: %w", err)
		}

		if err := tx.LinkUserTenancy(ctx, sess.UserID, tenancy.ID); err != nil {
			return fmt.Errorf("link user to tenancy: %w", err)
		}

		marked, err := tx.MarkUnitOccupied(ctx, locked.ApartmentID)
		switch {
		case err != nil:
			log.WithError(err).WithField("unit_id", locked.ApartmentID).
				Warn("unit not marked occupied; lease kept")
			result.Warning = WarningUnitNotMarkedOccupied
			result.WarningCode = utils.WarnCodeUnitNotMarkedOccupied
		case !marked:
			return ErrUnitUnavailable
		}

		if err := tx.DeleteApplication(ctx, applicationID); err != nil {
			return fmt.Errorf("delete application: %w", err)
		}

		result.Tenancy = tenancy
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnitUnavailable) || errors.Is(err, ErrApplicationNotFound) {
			log.WithError(err).Info("lease acceptance refused")
		} else {
			log.WithError(err).Error("lease acceptance failed")
		}
		return nil, err
	}

	s.apartments.Invalidate()
	log.WithField("tenancy_id", result.Tenancy.ID).Info("lease accepted")
	return result, nil
}
