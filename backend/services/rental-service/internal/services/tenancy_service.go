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

// TenancyDetails is a tenancy with the people and place it binds.
type TenancyDetails struct {
	Tenancy *models.Tenancy
	Tenant  *models.User
	Unit    *models.Unit
}

type TenancyService interface {
	ListMine(ctx context.Context, sess middleware.Session) ([]*models.Tenancy, error)
	Details(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID) (*TenancyDetails, error)
	UpdateDetails(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID, req dtos.UpdateTenancyRequest) (*TenancyDetails, error)
	// Owned returns the tenancy only if it belongs to the caller.
	Owned(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID) (*models.Tenancy, error)
}

type tenancyService struct {
	tenancies repositories.TenancyRepository
	users     repositories.UserRepository
	units     repositories.UnitRepository
}

func NewTenancyService(
	tenancies repositories.TenancyRepository,
	users repositories.UserRepository,
	units repositories.UnitRepository,
) TenancyService {
	return &tenancyService{tenancies: tenancies, users: users, units: units}
}

func (s *tenancyService) ListMine(ctx context.Context, sess middleware.Session) ([]*models.Tenancy, error) {
	return s.tenancies.ListByUser(ctx, sess.UserID)
}

// Owned hides other users' tenancies behind ErrTenancyNotFound.
func (s *tenancyService) Owned(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID) (*models.Tenancy, error) {
	t, err := s.tenancies.GetByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != sess.UserID {
		return nil, ErrTenancyNotFound
	}
	return t, nil
}

func (s *tenancyService) Details(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID) (*TenancyDetails, error) {
	t, err := s.Owned(ctx, sess, tenancyID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrNotFound
	}
	unit, err := s.units.GetWithProperty(ctx, t.ApartmentID)
	if err != nil {
		return nil, err
	}
	return &TenancyDetails{Tenancy: t, Tenant: user, Unit: unit}, nil
}

func (s *tenancyService) UpdateDetails(
	ctx context.Context,
	sess middleware.Session,
	tenancyID uuid.UUID,
	req dtos.UpdateTenancyRequest,
) (*TenancyDetails, error) {
	if _, err := s.Owned(ctx, sess, tenancyID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	if req.TouchesUser() {
		if err := s.users.UpdateWithRetry(ctx, sess.UserID, func(u *models.User) error {
			if req.Name != nil {
				u.Name = strings.TrimSpace(*req.Name)
			}
			if req.Email != nil {
				u.Email = utils.NormalizeEmail(*req.Email)
			}
			if req.PhoneNumber != nil {
				u.PhoneNumber = *req.PhoneNumber
			}
			u.UpdatedAt = now
			return nil
		}); err != nil {
			if isUniqueViolation(err) {
				return nil, utils.ErrEmailExists
			}
			return nil, err
		}
	}

	if req.TouchesTenancy() {
		if err := s.tenancies.UpdateWithRetry(ctx, tenancyID, func(t *models.Tenancy) error {
			if req.EmergencyContactName != nil {
				t.EmergencyContactName = strings.TrimSpace(*req.EmergencyContactName)
			}
			if req.EmergencyContactPhone != nil {
				t.EmergencyContactPhone = *req.EmergencyContactPhone
			}
			if req.EmergencyRelationship != nil {
				t.EmergencyRelationship = strings.TrimSpace(*req.EmergencyRelationship)
			}
			t.UpdatedAt = now
			return nil
		}); err != nil {
			return nil, err
		}
	}

	return s.Details(ctx, sess, tenancyID)
}
