package services

import "errors"

var (
	// ErrNotFound means the requested document id has no header row.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict means the header moved since the client loaded it.
	ErrVersionConflict = errors.New("document was modified by another editor")
	// ErrInvalidStatus means the payload status is outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status")
)
