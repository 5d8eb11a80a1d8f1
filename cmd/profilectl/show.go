package main

import (
	"context"

	"github.com/spf13/cobra"

	"profile-hub/internal/app"
	"profile-hub/internal/domain"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile aggregate as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App, principal domain.Principal) error {
			agg, err := a.Profiles.GetAggregate(ctx, principal, principal.ID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agg)
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
