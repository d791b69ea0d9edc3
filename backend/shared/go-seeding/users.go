package seeding

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

const (
	DefaultTenantID       = "55555555-5555-5555-5555-555555555555"
	DefaultTenantEmail    = "tenant@ebh.example"
	DefaultTenantPassword = "ChangeMe123!"
)

// SeedDefaultTenant creates a demo tenant account with no tenancy.
func SeedDefaultTenant(ctx context.Context, userRepo repositories.UserRepository) error {
	id := uuid.MustParse(DefaultTenantID)

	if existing, err := userRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("check existing tenant: %w", err)
	} else if existing != nil {
		utils.Logger.Info("seeding: default tenant already present; skipping")
		return nil
	}

	hash, err := utils.HashPassword(DefaultTenantPassword)
	if err != nil {
		return fmt.Errorf("hash default tenant password: %w", err)
	}
	u := &models.User{
		ID:           id,
		Name:         "Demo Tenant",
		Email:        DefaultTenantEmail,
		PhoneNumber:  "+233200000001",
		PasswordHash: hash,
	}
	if err := userRepo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			utils.Logger.Infof("seeding: tenant (id=%s) already exists; skipping", id)
			return nil
		}
		return fmt.Errorf("create default tenant: %w", err)
	}
	utils.Logger.Infof("seeding: created default tenant id=%s", id)
	return nil
}

// SeedAll runs every seeder in dependency order.
func SeedAll(ctx context.Context, propRepo repositories.PropertyRepository, unitRepo repositories.UnitRepository, userRepo repositories.UserRepository) error {
	if err := SeedDefaultProperty(ctx, propRepo, unitRepo); err != nil {
		return err
	}
	return SeedDefaultTenant(ctx, userRepo)
}
