package explorer

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when no API credential is configured.
	ErrMissingAPIKey = errors.New("explorer api key not configured")
	// ErrInvalidAddress rejects malformed wallet addresses before any
	// upstream call is made.
	ErrInvalidAddress = errors.New("invalid wallet address")
)

// Upstream failure kinds.
const (
	KindFatalUpstream    = "fatal_upstream"
	KindRetriesExhausted = "retries_exhausted"
)

// UpstreamError reports a failure the explorer API classified as not worth
// retrying, or a retry budget that ran out.
type UpstreamError struct {
	Kind    string
	Action  Action
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("explorer %s: %s: %s", e.Action, e.Kind, e.Message)
}
