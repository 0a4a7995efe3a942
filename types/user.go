package types

import "time"

// User represents one member of the fixed roster.
// The roster never grows at runtime; rows are seeded from configuration.
type User struct {
	// ID is the surrogate database identifier.
	ID int `json:"-" db:"id"`

	// Key is the short public identifier (e.g. "HJ"). Unique; lookups are
	// case-insensitive after trimming.
	Key string `json:"key" db:"key"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Color is the hex color the frontend renders this user's events in.
	Color string `json:"color" db:"color"`

	// PasscodeHash stores the bcrypt hash of the user's passcode.
	// An empty hash means the deployment never provided the secret.
	// This field is never exposed in API responses.
	PasscodeHash string `json:"-" db:"passcode_hash"`

	// CreatedAt is the timestamp when the row was seeded.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent re-seed.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
