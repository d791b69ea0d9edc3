package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Property is a building or estate that groups rentable units.
type Property struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	PropertyType  string    `json:"type"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	OwnerName     string    `json:"owner_name"`
	OwnerContact  string    `json:"owner_contact"`
	Amenities     []string  `json:"amenities"`
	Rules         []string  `json:"rules"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName renders "<name>, <Type>" with the type capitalised.
func (p *Property) DisplayName() string {
	t := strings.TrimSpace(p.PropertyType)
	if t == "" {
		return p.Name
	}
	return p.Name + ", " + strings.ToUpper(t[:1]) + t[1:]
}

// Location renders "<street>, <city>".
func (p *Property) Location() string {
	switch {
	case p.StreetAddress == "":
		return p.City
	case p.City == "":
		return p.StreetAddress
	default:
		return p.StreetAddress + ", " + p.City
	}
}
