package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

// SubmitApplicationRequest dates are checked by the service; the
// validator only covers the string fields.
type SubmitApplicationRequest struct {
	ApplicantTitle        string `json:"applicant_title" validate:"required,max=20"`
	EmploymentStatus      string `json:"employment_status" validate:"required,max=40"`
	EmployerName          string `json:"employer_name" validate:"required,max=120"`
	HouseholdSize         int    `json:"household_size" validate:"omitempty,min=1,max=20"`
	MoveInDate            Date   `json:"move_in_date"`
	LeaseEndDate          Date   `json:"lease_end_date"`
	EmergencyContactName  string `json:"emergency_contact_name" validate:"omitempty,max=120"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,e164"`
	EmergencyRelationship string `json:"emergency_relationship" validate:"omitempty,max=60"`
}

type ApplicationResponse struct {
	ID                    uuid.UUID             `json:"id"`
	ApartmentID           uuid.UUID             `json:"apartment_id"`
	ApprovalStatus        models.ApprovalStatus `json:"approval_status"`
	DisplayStatus         string                `json:"display_status"`
	Conditions            []string              `json:"conditions"`
	MoveInDate            Date                  `json:"move_in_date"`
	LeaseEndDate          Date                  `json:"lease_end_date"`
	ApplicantTitle        string                `json:"applicant_title"`
	EmploymentStatus      string                `json:"employment_status"`
	EmployerName          string                `json:"employer_name"`
	HouseholdSize         int                   `json:"household_size,omitempty"`
	EmergencyContactName  string                `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string                `json:"emergency_contact_phone,omitempty"`
	EmergencyRelationship string                `json:"emergency_relationship,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	Apartment             *UnitResponse         `json:"apartment,omitempty"`
}

func NewApplicationResponse(a *models.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                    a.ID,
		ApartmentID:           a.ApartmentID,
		ApprovalStatus:        a.ApprovalStatus,
		DisplayStatus:         a.DisplayStatus(),
		Conditions:            nonNil(a.Conditions),
		MoveInDate:            NewDate(a.MoveInDate),
		LeaseEndDate:          NewDate(a.LeaseEndDate),
		ApplicantTitle:        a.ApplicantTitle,
		EmploymentStatus:      a.EmploymentStatus,
		EmployerName:          a.EmployerName,
		HouseholdSize:         a.HouseholdSize,
		EmergencyContactName:  a.EmergencyContactName,
		EmergencyContactPhone: a.EmergencyContactPhone,
		EmergencyRelationship: a.EmergencyRelationship,
		CreatedAt:             a.CreatedAt,
	}
	if a.Apartment != nil {
		u := NewUnitResponse(a.Apartment)
		resp.Apartment = &u
	}
	return resp
}

func NewApplicationListResponse(apps []*models.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}

// AcceptApplicationResponse carries a warning when the lease was created
// but a follow-up step did not complete.
type AcceptApplicationResponse struct {
	Tenancy TenancyResponse `json:"tenancy"`
	Warning string          `json:"warning,omitempty"`
	Code    string          `json:"code,omitempty"`
}
