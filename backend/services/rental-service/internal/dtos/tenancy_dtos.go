package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

type TenancyResponse struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	ApartmentID           uuid.UUID `json:"apartment_id"`
	LeaseStartDate        Date      `json:"lease_start_date"`
	LeaseEndDate          Date      `json:"lease_end_date"`
	EmergencyContactName  string    `json:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergency_contact_phone"`
	EmergencyRelationship string    `json:"emergency_relationship"`
	CreatedAt             time.Time `json:"created_at"`
}

func NewTenancyResponse(t *models.Tenancy) TenancyResponse {
	return TenancyResponse{
		ID:                    t.ID,
		UserID:                t.UserID,
		ApartmentID:           t.ApartmentID,
		LeaseStartDate:        NewDate(t.LeaseStartDate),
		LeaseEndDate:          NewDate(t.LeaseEndDate),
		EmergencyContactName:  t.EmergencyContactName,
		EmergencyContactPhone: t.EmergencyContactPhone,
		EmergencyRelationship: t.EmergencyRelationship,
		CreatedAt:             t.CreatedAt,
	}
}

func NewTenancyListResponse(ts []*models.Tenancy) []TenancyResponse {
	out := make([]TenancyResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTenancyResponse(t))
	}
	return out
}

type TenantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
}

type TenancyDetailsResponse struct {
	Tenancy   TenancyResponse `json:"tenancy"`
	Tenant    TenantResponse  `json:"tenant"`
	Apartment *UnitResponse   `json:"apartment,omitempty"`
}

// UpdateTenancyRequest is a partial update; nil fields are left alone.
type UpdateTenancyRequest struct {
	Name                  *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	PhoneNumber           *string `json:"phone_number" validate:"omitempty,e164"`
	EmergencyContactName  *string `json:"emergency_contact_name" validate:"omitempty,max=120"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" validate:"omitempty,e164"`
	EmergencyRelationship *string `json:"emergency_relationship" validate:"omitempty,max=60"`
}

func (r UpdateTenancyRequest) TouchesUser() bool {
	return r.Name != nil || r.Email != nil || r.PhoneNumber != nil
}

func (r UpdateTenancyRequest) TouchesTenancy() bool {
	return r.EmergencyContactName != nil || r.EmergencyContactPhone != nil || r.EmergencyRelationship != nil
}
