package authflow

import "errors"

var (
	// ErrConfiguration indicates the flow cannot be built: discovery failed
	// or returned no usable authorization endpoint, or the configured
	// redirect URL is absent or malformed.
	ErrConfiguration = errors.New("authentication configuration invalid")

	// ErrFlowInProgress indicates an interactive flow is already awaiting a
	// provider callback. At most one flow may be outstanding process-wide.
	ErrFlowInProgress = errors.New("an authorization flow is already in progress")

	// ErrFlowCancelled indicates the user backed out of the interactive flow
	// at the provider.
	ErrFlowCancelled = errors.New("authorization was cancelled")

	// ErrNotAuthenticated indicates no valid session could be established.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrFailedToSaveState indicates the flow succeeded but the resulting
	// credential state could not be durably persisted. The in-memory session
	// still reflects the new state.
	ErrFailedToSaveState = errors.New("failed to save authentication state")
)

// cancelledErrorCode is the provider error code distinguishing a user
// backing out from a genuine authorization failure.
const cancelledErrorCode = "access_denied"
