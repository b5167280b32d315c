package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"authgate/internal/token"
)

// Token-specific flags
var tokenID bool

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a fresh token",
	Long: `Print a fresh, non-expired access token (or, with --id, the ID
token), refreshing the session first if necessary.

The token is printed to stdout for piping into other tools:
  curl -H "Authorization: Bearer $(authgate token)" https://api.example.com`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenID, "id", false, "Print the ID token instead of the access token")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	kind := token.KindAccess
	if tokenID {
		kind = token.KindID
	}

	value, err := a.tokens.GetToken(cmd.Context(), kind)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}
