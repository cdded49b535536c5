// Package domain holds errors shared across features.
package domain

import "errors"

// ErrNotFound is returned by data providers when a symbol exists but the requested data does not.
var ErrNotFound = errors.New("no data available")
