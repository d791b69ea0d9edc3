// go-models/unit.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OccupancyStatus string

const (
	OccupancyAvailable   OccupancyStatus = "available"
	OccupancyOccupied    OccupancyStatus = "occupied"
	OccupancyMaintenance OccupancyStatus = "maintenance"
)

func (s OccupancyStatus) Valid() bool {
	switch s {
	case OccupancyAvailable, OccupancyOccupied, OccupancyMaintenance:
		return true
	}
	return false
}

// Unit is a rentable apartment inside a property.
type Unit struct {
	Versioned
	ID              uuid.UUID       `json:"id"`
	PropertyID      uuid.UUID       `json:"property_id"`
	UnitLabel       string          `json:"unit_label"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	OccupancyStatus OccupancyStatus `json:"occupancy_status"`
	BedroomCount    int             `json:"bedroom_count"`
	BathroomCount   int             `json:"bathroom_count"`
	SquareFeet      int             `json:"square_feet"`
	Amenities       []string        `json:"amenities"`
	Rules           []string        `json:"rules"`
	Images          []string        `json:"images"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Populated by joined reads only.
	Property *Property `json:"property,omitempty"`
}

func (u *Unit) GetID() string { return u.ID.String() }
