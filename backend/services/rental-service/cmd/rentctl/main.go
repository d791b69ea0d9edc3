// Command rentctl is the operator CLI for the rental backend: schema
// migrations, demo data, and owner decisions on applications.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

func main() {
	utils.LoadDotEnv()
	utils.InitLogger("rentctl")

	rootCmd := &cobra.Command{
		Use:          "rentctl",
		Short:        "Rental backend operator tool",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("db-url", "", "Postgres URL (defaults to $DB_URL)")

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		applicationCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dbURL(cmd *cobra.Command) (string, error) {
	if v, _ := cmd.Flags().GetString("db-url"); v != "" {
		return v, nil
	}
	if v := os.Getenv("DB_URL"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no database: pass --db-url or set DB_URL")
}
