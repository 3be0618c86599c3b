// Package explorer retrieves wallet activity from an Etherscan-compatible
// chain explorer API, with global throttling, retry with exponential
// backoff, and windowed pagination.
package explorer

import "context"

// Source retrieves windowed wallet activity.
type Source interface {
	// FetchWindow returns the rows of one activity category whose
	// timestamps fall inside the window.
	FetchWindow(ctx context.Context, action Action, address string, window Window) (WindowResult, error)
	// FirstSeen returns the timestamp of the wallet's earliest native
	// transaction, or zero when the wallet has no history at all.
	FirstSeen(ctx context.Context, address string) (int64, error)
}
