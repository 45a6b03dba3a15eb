package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrDVDNotFound indicates no DVD exists with the requested ID
	ErrDVDNotFound = errors.New("dvd not found")

	// ErrInvalidDVD indicates user-supplied DVD fields failed parsing or validation
	ErrInvalidDVD = errors.New("invalid dvd")
)
