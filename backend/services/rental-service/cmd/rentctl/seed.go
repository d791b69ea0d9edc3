package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/app"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-seeding"
)

const connectTimeout = 10 * time.Second

func connect(cmd *cobra.Command) (*pgxpool.Pool, error) {
	url, err := dbURL(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
	defer cancel()
	pool, err := app.NewDBPool(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return pool, nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo property, its units and the demo tenant (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := seeding.SeedAll(
				cmd.Context(),
				repositories.NewPropertyRepository(pool),
				repositories.NewUnitRepository(pool),
				repositories.NewUserRepository(pool),
			); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed complete")
			return nil
		},
	}
}
