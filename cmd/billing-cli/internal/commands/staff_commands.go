package commands

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/bootstrap"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// CreateStaffCmd creates a staff account. A new company ID is generated when
// --company is empty, which is how the first company is bootstrapped.
func CreateStaffCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	companyID, err := flags.GetString("company")
	if err != nil {
		return fmt.Errorf("invalid company flag: %w", err)
	}
	if companyID == "" {
		companyID = uuid.NewString()
	}

	input := &staff.Input{}
	for name, target := range map[string]*string{
		"username":   &input.Username,
		"email":      &input.Email,
		"first-name": &input.FirstName,
		"last-name":  &input.LastName,
		"password":   &input.Password,
	} {
		if *target, err = flags.GetString(name); err != nil {
			return fmt.Errorf("invalid %s flag: %w", name, err)
		}
	}

	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container, log logger.Logger) error {
		member, err := c.Staff.Create(ctx, companyID, input)
		if err != nil {
			return err
		}

		log.Info("Created staff member ", member.Username)
		fmt.Fprintf(cmd.OutOrStdout(), "staff_id=%s company_id=%s\n", member.ID, member.CompanyID)
		return nil
	})
}

// InitStaffCommands registers staff-related commands
func InitStaffCommands(rootCmd *cobra.Command) error {
	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE:  CreateStaffCmd,
	}
	createCmd.Flags().StringP("company", "", "", "Company ID; a new one is generated when empty")
	createCmd.Flags().StringP("username", "", "", "Login name")
	createCmd.Flags().StringP("email", "", "", "Email address")
	createCmd.Flags().StringP("first-name", "", "", "First name")
	createCmd.Flags().StringP("last-name", "", "", "Last name")
	createCmd.Flags().StringP("password", "", "", "Password, 8 to 72 characters")
	for _, name := range []string{"username", "email", "first-name", "last-name", "password"} {
		if err := createCmd.MarkFlagRequired(name); err != nil {
			return err
		}
	}
	staffCmd.AddCommand(createCmd)

	rootCmd.AddCommand(staffCmd)
	return nil
}
