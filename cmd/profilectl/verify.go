package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"profile-hub/internal/app"
	"profile-hub/internal/domain"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the profile against the trusted identity provider",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App, principal domain.Principal) error {
			if err := a.Verification.Verify(ctx, principal); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "profile %s verified\n", principal.ID)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
