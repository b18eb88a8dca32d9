package storage

import "errors"

var (
	// ErrUnavailable wraps every failure to reach or write the backing
	// store. Callers match it with errors.Is to tell a broken index apart
	// from an empty result.
	ErrUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch is returned when a chunk or query embedding does
	// not match the collection's vector dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
