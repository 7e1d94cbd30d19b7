package resolver

import "errors"

var (
	// ErrNotFound means a search yielded no results.
	ErrNotFound = errors.New("no results for query")

	// ErrResolutionFailed means a locator could not be classified or resolved.
	ErrResolutionFailed = errors.New("could not resolve locator")

	// ErrStreamUnavailable means the media exists but no audio stream could be acquired.
	ErrStreamUnavailable = errors.New("audio stream unavailable")
)
