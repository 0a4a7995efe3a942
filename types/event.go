package types

import "time"

// Event is a day-scoped calendar entry. Each owner holds at most one event
// per day; repeat writes for the same (owner, day) replace it in place.
type Event struct {
	// ID is the surrogate identifier, a uuid string. It is stable across
	// repeat upserts for the same (owner, day).
	ID string `json:"id" db:"id"`

	// OwnerKey references User.Key. Only the matching authenticated
	// identity may mutate or delete the event.
	OwnerKey string `json:"owner_key" db:"owner_key"`

	// Day is the calendar day the event falls on.
	Day Date `json:"day" db:"day"`

	// Title is the short event text, non-empty after trimming.
	Title string `json:"title" db:"title"`

	// Note is optional free text, empty string when unset.
	Note string `json:"note" db:"note"`

	// Time is an optional "HH:MM" time of day. Empty means all-day.
	Time string `json:"time,omitempty" db:"event_time"`

	// CreatedAt is the timestamp of the first upsert.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent upsert.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
