// Package common contains shared constants and sentinel errors used across
// TriVision components.
package common

// Logical keys of the key-value persistence substrate.
const (
	UsersKey   = "users"
	SessionKey = "session"
	HistoryKey = "history"
)

// DefaultHistoryCapacity is the number of history entries kept before the
// oldest ones are evicted.
const DefaultHistoryCapacity = 20

// MaxUploadBytes caps the size of a user-selected image file.
const MaxUploadBytes = 5 << 20
