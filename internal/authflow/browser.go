package authflow

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"authgate/pkg/logging"
)

// Presenter is the interactive presentation collaborator: it puts the
// authorization URL in front of the user. The ephemeral flag asks the
// surface to suppress persistent browser session and cookie reuse.
type Presenter interface {
	Present(ctx context.Context, authURL string, ephemeral bool) error
}

// BrowserPresenter presents the flow in the user's default web browser.
// It supports Linux, macOS, and Windows.
type BrowserPresenter struct{}

// Present opens the authorization URL in the default browser. The default
// browser launcher has no portable private-session switch, so the ephemeral
// flag is logged and otherwise ignored here; surfaces that can honor it
// provide their own Presenter.
func (BrowserPresenter) Present(ctx context.Context, authURL string, ephemeral bool) error {
	if ephemeral {
		logging.Debug("AuthFlow", "Private session requested; default browser launcher cannot enforce it")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", authURL)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", authURL)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", authURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	// Start without waiting; the browser keeps running after the flow.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
