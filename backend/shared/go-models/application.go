package models

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Display labels shown to the applicant.
const (
	DisplayPending               = "pending"
	DisplayRejected              = "rejected"
	DisplayApprovedConditionally = "approved conditionally"
	DisplayApproved              = "approved"
)

// Application is a prospective tenant's request to lease a unit.
// The row is deleted when withdrawn or when converted into a Tenancy.
type Application struct {
	Versioned
	ID                    uuid.UUID      `json:"id"`
	ApplicantUserID       uuid.UUID      `json:"applicant_user_id"`
	ApartmentID           uuid.UUID      `json:"apartment_id"`
	ApprovalStatus        ApprovalStatus `json:"approval_status"`
	Conditions            []string       `json:"conditions"`
	MoveInDate            time.Time      `json:"move_in_date"`
	LeaseEndDate          time.Time      `json:"lease_end_date"`
	ApplicantTitle        string         `json:"applicant_title"`
	EmploymentStatus      string         `json:"employment_status"`
	EmployerName          string         `json:"employer_name"`
	HouseholdSize         int            `json:"household_size"`
	EmergencyContactName  string         `json:"emergency_contact_name"`
	EmergencyContactPhone string         `json:"emergency_contact_phone"`
	EmergencyRelationship string         `json:"emergency_relationship"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`

	// Populated by joined reads only.
	Apartment *Unit `json:"apartment,omitempty"`
}

func (a *Application) GetID() string { return a.ID.String() }

// DisplayStatus maps the stored status onto the label the applicant sees.
// An approval that carries conditions is shown as conditional.
func (a *Application) DisplayStatus() string {
	switch a.ApprovalStatus {
	case ApprovalRejected:
		return DisplayRejected
	case ApprovalApproved:
		if len(a.Conditions) > 0 {
			return DisplayApprovedConditionally
		}
		return DisplayApproved
	default:
		return DisplayPending
	}
}
