package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// ApplicationService covers the applicant side of the application
// lifecycle plus the owner decision used by operators.
type ApplicationService interface {
	Submit(ctx context.Context, sess middleware.Session, apartmentID uuid.UUID, req dtos.SubmitApplicationRequest) (*models.Application, error)
	ListMine(ctx context.Context, sess middleware.Session) ([]*models.Application, error)
	// Withdraw deletes the caller's application. Repeating it is a no-op.
	Withdraw(ctx context.Context, sess middleware.Session, id uuid.UUID) error
	Decide(ctx context.Context, id uuid.UUID, status models.ApprovalStatus, conditions []string) (*models.Application, error)
}

type applicationService struct {
	applications repositories.ApplicationRepository
	units        repositories.UnitRepository
}

func NewApplicationService(applications repositories.ApplicationRepository, units repositories.UnitRepository) ApplicationService {
	return &applicationService{applications: applications, units: units}
}

func (s *applicationService) Submit(
	ctx context.Context,
	sess middleware.Session,
	apartmentID uuid.UUID,
	req dtos.SubmitApplicationRequest,
) (*models.Application, error) {
	if req.MoveInDate.IsZero() {
		return nil, invalid("move_in_date", "is required")
	}
	if req.LeaseEndDate.IsZero() {
		return nil, invalid("lease_end_date", "is required")
	}
	if !req.LeaseEndDate.Time().After(req.MoveInDate.Time()) {
		return nil, invalid("lease_end_date", "must be after move_in_date")
	}

	unit, err := s.units.GetByID(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, ErrUnitNotFound
	}
	if unit.OccupancyStatus != models.OccupancyAvailable {
		return nil, ErrUnitUnavailable
	}

	app := &models.Application{
		ID:                    uuid.New(),
		ApplicantUserID:       sess.UserID,
		ApartmentID:           apartmentID,
		ApprovalStatus:        models.ApprovalPending,
		MoveInDate:            req.MoveInDate.Time(),
		LeaseEndDate:          req.LeaseEndDate.Time(),
		ApplicantTitle:        strings.TrimSpace(req.ApplicantTitle),
		EmploymentStatus:      strings.TrimSpace(req.EmploymentStatus),
		EmployerName:          strings.TrimSpace(req.EmployerName),
		HouseholdSize:         req.HouseholdSize,
		EmergencyContactName:  strings.TrimSpace(req.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(req.EmergencyContactPhone),
		EmergencyRelationship: strings.TrimSpace(req.EmergencyRelationship),
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	utils.Logger.WithFields(map[string]any{
		"application_id": app.ID, "user_id": sess.UserID, "unit_id": apartmentID,
	}).Info("application submitted")
	return app, nil
}

func (s *applicationService) ListMine(ctx context.Context, sess middleware.Session) ([]*models.Application, error) {
	return s.applications.ListByApplicant(ctx, sess.UserID)
}

func (s *applicationService) Withdraw(ctx context.Context, sess middleware.Session, id uuid.UUID) error {
	return s.applications.DeleteForApplicant(ctx, id, sess.UserID)
}

func (s *applicationService) Decide(
	ctx context.Context,
	id uuid.UUID,
	status models.ApprovalStatus,
	conditions []string,
) (*models.Application, error) {
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return nil, invalid("status", "must be approved or rejected")
	}
	conditions = utils.Dedupe(conditions)
	if status == models.ApprovalRejected {
		conditions = nil
	}

	var decided *models.Application
	err := s.applications.UpdateWithRetry(ctx, id, func(a *models.Application) error {
		a.ApprovalStatus = status
		a.Conditions = conditions
		a.UpdatedAt = time.Now().UTC()
		decided = a
		return nil
	})
	if err != nil {
		if isNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	utils.Logger.WithField("application_id", id).Infof("application %s", status)
	return decided, nil
}
