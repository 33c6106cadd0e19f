package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentwise/internal/database"
	"rentwise/internal/middleware"
	"rentwise/internal/services"
)

// realtorCmd provisions realtor accounts. Sign-up is handled outside this
// service, so operators seed realtors and hand out their tokens from here.
func realtorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realtor",
		Short: "Manage realtor accounts",
	}

	var email, firstName, lastName string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a realtor and print an access token for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(m *database.Manager) error {
				realtor, err := services.NewRealtorService(m.DB()).
					CreateRealtor(cmd.Context(), email, firstName, lastName)
				if err != nil {
					return err
				}
				token, err := middleware.GenerateAccessToken(realtor)
				if err != nil {
					return fmt.Errorf("failed to issue token: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "realtor_id: %s\n", realtor.ID)
				fmt.Fprintf(out, "access_token: %s\n", token)
				return nil
			})
		},
	}
	create.Flags().StringVar(&email, "email", "", "realtor email (required)")
	create.Flags().StringVar(&firstName, "first-name", "", "first name (required)")
	create.Flags().StringVar(&lastName, "last-name", "", "last name (required)")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("first-name")
	_ = create.MarkFlagRequired("last-name")

	cmd.AddCommand(create)
	return cmd
}
