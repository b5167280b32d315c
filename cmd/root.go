package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"authgate/internal/authflow"
	"authgate/pkg/logging"
)

// Exit codes for CLI commands. These follow common conventions so scripts
// can distinguish authentication problems from general failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the authorization flow failed.
	ExitCodeAuthFailed = 3
)

// Persistent flags shared by all subcommands.
var (
	rootDebug      bool
	rootConfigPath string
)

// rootCmd represents the base command for the authgate application.
var rootCmd = &cobra.Command{
	Use:   "authgate",
	Short: "Authenticate to your identity provider from the terminal",
	Long: `authgate drives a browser-based OpenID Connect login, keeps the
resulting tokens fresh, and answers authorization questions (permissions,
organizations, feature flags, entitlements) derived from them.`,
	// SilenceUsage prevents cobra from printing usage on errors the
	// application already reports.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.Initialize(level, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Configuration directory (default ~/.config/authgate)")
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current application version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "authgate version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	switch {
	case errors.Is(err, authflow.ErrNotAuthenticated):
		return ExitCodeAuthRequired
	case errors.Is(err, authflow.ErrFlowCancelled),
		errors.Is(err, authflow.ErrFailedToSaveState),
		errors.Is(err, authflow.ErrFlowInProgress):
		return ExitCodeAuthFailed
	default:
		return ExitCodeError
	}
}
