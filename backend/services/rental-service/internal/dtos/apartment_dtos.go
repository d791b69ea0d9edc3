package dtos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
)

type PropertyResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Location     string    `json:"location"`
	OwnerName    string    `json:"owner_name,omitempty"`
	OwnerContact string    `json:"owner_contact,omitempty"`
	Amenities    []string  `json:"amenities"`
	Rules        []string  `json:"rules"`
	ImageURL     string    `json:"image_url,omitempty"`
}

type UnitResponse struct {
	ID              uuid.UUID              `json:"id"`
	UnitLabel       string                 `json:"unit_label"`
	MonthlyRent     decimal.Decimal        `json:"monthly_rent"`
	OccupancyStatus models.OccupancyStatus `json:"occupancy_status"`
	BedroomCount    int                    `json:"bedroom_count"`
	BathroomCount   int                    `json:"bathroom_count"`
	SquareFeet      int                    `json:"square_feet,omitempty"`
	Amenities       []string               `json:"amenities"`
	Rules           []string               `json:"rules"`
	Images          []string               `json:"images"`
	Property        *PropertyResponse      `json:"property,omitempty"`
}

func NewUnitResponse(u *models.Unit) UnitResponse {
	resp := UnitResponse{
		ID:              u.ID,
		UnitLabel:       u.UnitLabel,
		MonthlyRent:     u.MonthlyRent,
		OccupancyStatus: u.OccupancyStatus,
		BedroomCount:    u.BedroomCount,
		BathroomCount:   u.BathroomCount,
		SquareFeet:      u.SquareFeet,
		Amenities:       nonNil(u.Amenities),
		Rules:           nonNil(u.Rules),
		Images:          nonNil(u.Images),
	}
	if p := u.Property; p != nil {
		resp.Property = &PropertyResponse{
			ID:           p.ID,
			Name:         p.Name,
			DisplayName:  p.DisplayName(),
			Location:     p.Location(),
			OwnerName:    p.OwnerName,
			OwnerContact: p.OwnerContact,
			Amenities:    nonNil(p.Amenities),
			Rules:        nonNil(p.Rules),
			ImageURL:     p.ImageURL,
		}
	}
	return resp
}

func NewUnitListResponse(units []*models.Unit) []UnitResponse {
	out := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, NewUnitResponse(u))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
