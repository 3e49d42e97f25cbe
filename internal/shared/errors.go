package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Guest-facing errors. Validation failures are caught before any store or
	// network access; not-found means a directory search matched nothing.
	ErrValidation = fmt.Errorf("invalid input")
	ErrNotFound   = fmt.Errorf("not found")

	// Upstream (Spotify) errors. ErrUpstreamAuth covers a failed credential
	// exchange, ErrUpstream a non-success response from the catalog or the
	// playlist endpoint. Both are surfaced to the guest with a retry prompt;
	// no automatic retry happens anywhere.
	ErrUpstream     = fmt.Errorf("upstream request failed")
	ErrUpstreamAuth = fmt.Errorf("upstream credential exchange failed")

	// Session errors
	ErrUnauthorized   = fmt.Errorf("unauthorized")
	ErrSessionExpired = fmt.Errorf("session expired")

	// CLI errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
