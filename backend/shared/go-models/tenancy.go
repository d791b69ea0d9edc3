package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenancy is an active lease binding a user to a unit.
type Tenancy struct {
	Versioned
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	ApartmentID           uuid.UUID `json:"apartment_id"`
	LeaseStartDate        time.Time `json:"lease_start_date"`
	LeaseEndDate          time.Time `json:"lease_end_date"`
	EmergencyContactName  string    `json:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergency_contact_phone"`
	EmergencyRelationship string    `json:"emergency_relationship"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (t *Tenancy) GetID() string { return t.ID.String() }

// Ended reports whether the lease is over on the given day. A lease that
// has not started yet still holds the unit.
func (t *Tenancy) Ended(on time.Time) bool {
	return !on.Before(t.LeaseEndDate)
}
