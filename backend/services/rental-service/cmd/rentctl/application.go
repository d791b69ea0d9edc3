package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
)

func applicationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "application",
		Aliases: []string{"app"},
		Short:   "Review rental applications",
	}
	cmd.AddCommand(applicationListCmd(), applicationDecideCmd())
	return cmd
}

func applicationListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications by approval status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			pool, err := connect(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()
			return listApplications(cmd.Context(), repositories.NewApplicationRepository(pool), cmd.OutOrStdout(), status)
		},
	}
	cmd.Flags().String("status", string(models.ApprovalPending), "pending, approved or rejected")
	return cmd
}

func applicationDecideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide <application-id>",
		Short: "Approve or reject an application",
		Example: `  rentctl application decide 7d0f... --approve --condition "Three months deposit"
  rentctl application decide 7d0f... --reject`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			approve, _ := cmd.Flags().GetBool("approve")
			reject, _ := cmd.Flags().GetBool("reject")
			conditions, _ := cmd.Flags().GetStringArray("condition")

			pool, err := connect(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := services.NewApplicationService(
				repositories.NewApplicationRepository(pool),
				repositories.NewUnitRepository(pool),
			)
			return decideApplication(cmd.Context(), svc, cmd.OutOrStdout(), args[0], approve, reject, conditions)
		},
	}
	cmd.Flags().Bool("approve", false, "Approve the application")
	cmd.Flags().Bool("reject", false, "Reject the application")
	cmd.Flags().StringArray("condition", nil, "Condition attached to an approval (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("approve", "reject")
	cmd.MarkFlagsOneRequired("approve", "reject")
	return cmd
}

func decideApplication(
	ctx context.Context,
	svc services.ApplicationService,
	out io.Writer,
	rawID string,
	approve, reject bool,
	conditions []string,
) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid application id %q: %w", rawID, err)
	}
	if approve == reject {
		return fmt.Errorf("exactly one of --approve or --reject is required")
	}
	status := models.ApprovalApproved
	if reject {
		status = models.ApprovalRejected
		if len(conditions) > 0 {
			return fmt.Errorf("--condition only applies to --approve")
		}
	}

	app, err := svc.Decide(ctx, id, status, conditions)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Application %s is now %s\n", app.ID, app.DisplayStatus())
	for _, c := range app.Conditions {
		fmt.Fprintf(out, "  - %s\n", c)
	}
	return nil
}

func listApplications(ctx context.Context, repo repositories.ApplicationRepository, out io.Writer, status string) error {
	st := models.ApprovalStatus(status)
	if !st.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	apps, err := repo.ListByStatus(ctx, st)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUNIT\tAPPLICANT\tMOVE-IN\tSTATUS\tCONDITIONS")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.ApartmentID, a.ApplicantUserID, a.MoveInDate.Format("2006-01-02"),
			a.DisplayStatus(), strings.Join(a.Conditions, "; "))
	}
	return tw.Flush()
}
