package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"authgate/internal/claims"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	Long: `Show whether a session exists, who it belongs to, when the access
token expires, and which organizations the user belongs to.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	state, ok := a.repo.Current()
	if !ok || !state.IsAuthorized {
		fmt.Println(text.FgYellow.Sprint("Not signed in"))
		fmt.Println("Run 'authgate login' to sign in.")
		return nil
	}

	if a.resolver.IsAuthenticated() {
		fmt.Println(text.FgGreen.Sprint("Signed in"))
	} else {
		fmt.Println(text.FgYellow.Sprint("Signed in (access token expired)"))
	}

	if email, found := claims.TokenEmail(state.IDToken); found {
		fmt.Printf("  User:          %s\n", email)
	}
	if subject, found := claims.TokenSubject(state.IDToken); found {
		fmt.Printf("  Subject:       %s\n", subject)
	}
	if !state.AccessTokenExpiry.IsZero() {
		fmt.Printf("  Token expires: %s\n", state.AccessTokenExpiry.Local().Format(time.RFC1123))
	}
	if orgCode, found := a.resolver.GetOrganization(); found {
		fmt.Printf("  Organization:  %s\n", orgCode)
	}
	if orgs, found := a.resolver.GetUserOrganizations(); found && len(orgs) > 0 {
		fmt.Printf("  Member of:     %s\n", strings.Join(orgs, ", "))
	}
	if _, permissions, found := a.resolver.GetPermissions(); found && len(permissions) > 0 {
		fmt.Printf("  Permissions:   %s\n", strings.Join(permissions, ", "))
	}

	return nil
}
