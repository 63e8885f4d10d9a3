// Package common defines shared constants and sentinel errors used across
// the TriVision services and the CLI. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound         = errors.New("not found")
	ErrPersistenceWrite = errors.New("persistence write failed")

	// Auth errors. Messages are shown to the user verbatim.
	ErrDuplicateUser      = errors.New("User ID already exists in the registry.")
	ErrInvalidCredentials = errors.New("Invalid credentials. Access denied.")
	ErrEmptyField         = errors.New("username and password are required")

	// Capture errors.
	ErrAcquisitionDenied = errors.New("CAMERA_ACCESS_DENIED")
	ErrUnsupportedImage  = errors.New("unsupported image format")
	ErrImageTooLarge     = errors.New("image exceeds 5MB limit")
	ErrBusy              = errors.New("analysis already in progress")
	ErrNothingToRerun    = errors.New("no image acquired yet")

	// ErrClassification never reaches callers of the classifier; it is only
	// used to tag log records for the fallback verdict.
	ErrClassification = errors.New("classification failed")
)
