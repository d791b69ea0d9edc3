package seeding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

const (
	DefaultPropertyID = "33333333-3333-3333-3333-333333333333"
)

// demoUnits are stable so reruns hit the unique-violation path.
var demoUnits = []struct {
	id       string
	label    string
	rent     int64
	bedrooms int
	status   models.OccupancyStatus
}{
	{"44444444-4444-4444-4444-444444444401", "A1", 1200, 2, models.OccupancyAvailable},
	{"44444444-4444-4444-4444-444444444402", "A2", 950, 1, models.OccupancyAvailable},
	{"44444444-4444-4444-4444-444444444403", "B1", 1650, 3, models.OccupancyMaintenance},
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SeedDefaultProperty creates the demo property and its units if needed.
func SeedDefaultProperty(ctx context.Context, propRepo repositories.PropertyRepository, unitRepo repositories.UnitRepository) error {
	propID := uuid.MustParse(DefaultPropertyID)

	existing, err := propRepo.GetByID(ctx, propID)
	if err != nil {
		return fmt.Errorf("check existing property: %w", err)
	}
	if existing == nil {
		p := &models.Property{
			ID:            propID,
			Name:          "Palm Court",
			PropertyType:  "apartment",
			StreetAddress: "12 Palm Rd",
			City:          "Accra",
			OwnerName:     "EBH Holdings",
			OwnerContact:  "+233302000000",
			Amenities:     []string{"parking", "borehole", "security"},
			Rules:         []string{"no smoking indoors", "quiet hours 22:00-06:00"},
			CreatedAt:     time.Now().UTC(),
		}
		if err := propRepo.Create(ctx, p); err != nil && !isUniqueViolation(err) {
			return fmt.Errorf("create default property: %w", err)
		}
		utils.Logger.Infof("seeding: created default property id=%s", propID)
	} else {
		utils.Logger.Info("seeding: default property already present; skipping")
	}

	for _, d := range demoUnits {
		id := uuid.MustParse(d.id)
		if u, err := unitRepo.GetByID(ctx, id); err != nil {
			return fmt.Errorf("check unit %s: %w", d.label, err)
		} else if u != nil {
			continue
		}
		u := &models.Unit{
			ID:              id,
			PropertyID:      propID,
			UnitLabel:       d.label,
			MonthlyRent:     decimal.NewFromInt(d.rent),
			OccupancyStatus: d.status,
			BedroomCount:    d.bedrooms,
			BathroomCount:   1,
		}
		if err := unitRepo.Create(ctx, u); err != nil {
			if isUniqueViolation(err) {
				utils.Logger.Infof("seeding: unit %s already exists; skipping", d.label)
				continue
			}
			return fmt.Errorf("create unit %s: %w", d.label, err)
		}
		utils.Logger.Infof("seeding: created unit %s id=%s", d.label, id)
	}
	return nil
}
