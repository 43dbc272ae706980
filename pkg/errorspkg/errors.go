// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates an unclassified internal failure.
var ErrInternal = errors.New("internal")

// ErrUnavailable indicates a transient store failure that is safe to retry.
var ErrUnavailable = errors.New("store unavailable")
