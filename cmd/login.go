package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"authgate/internal/authflow"
	"authgate/internal/claims"
)

// Login-specific flags
var (
	loginSignUp    bool
	loginCreateOrg bool
	loginOrgCode   string
	loginOrgName   string
	loginHint      string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through your identity provider",
	Long: `Sign in using a browser-based OpenID Connect authorization flow.

authgate opens your default browser at the provider's login page, waits for
the callback on a local loopback server, and stores the resulting tokens in
the configured secure store.

Examples:
  authgate login                        # Sign in
  authgate login --sign-up              # Start on the registration page
  authgate login --org-code org_1234    # Sign in to a specific organization
  authgate login --create-org --org-name "Acme"  # Register a new organization`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginSignUp, "sign-up", false, "Start on the registration page instead of login")
	loginCmd.Flags().BoolVar(&loginCreateOrg, "create-org", false, "Create a new organization during registration")
	loginCmd.Flags().StringVar(&loginOrgCode, "org-code", "", "Organization to sign in to")
	loginCmd.Flags().StringVar(&loginOrgName, "org-name", "", "Name for the organization created with --create-org")
	loginCmd.Flags().StringVar(&loginHint, "login-hint", "", "Pre-fill the provider's identifier field")

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := authflow.FlowOptions{
		SignUp:    loginSignUp,
		CreateOrg: loginCreateOrg,
		OrgCode:   loginOrgCode,
		OrgName:   loginOrgName,
		LoginHint: loginHint,
	}

	flow, err := a.controller.Start(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Println("Opening your browser to complete sign-in...")
	fmt.Printf("If it does not open, visit:\n  %s\n", flow.Request.AuthURL)

	state, err := a.controller.Wait(ctx)
	if err != nil {
		return err
	}

	if email, ok := claims.TokenEmail(state.IDToken); ok {
		fmt.Printf("Signed in as %s\n", email)
	} else {
		fmt.Println("Signed in")
	}
	return nil
}
