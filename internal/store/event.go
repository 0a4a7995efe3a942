package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/woorical/apiserver/types"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListRange returns all events with from <= day <= to, ordered by day, then
// time of day (all-day events last), then id so output is deterministic.
func (r *EventRepository) ListRange(ctx context.Context, from, to types.Date) ([]types.Event, error) {
	const query = `
		SELECT id, owner_key, day, title, note, event_time, created_at, updated_at
		FROM events
		WHERE day >= $1 AND day <= $2
		ORDER BY day ASC, event_time ASC NULLS LAST, id ASC`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (types.Event, error) {
	const query = `
		SELECT id, owner_key, day, title, note, event_time, created_at, updated_at
		FROM events
		WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, ErrNotFound
		}
		return types.Event{}, err
	}
	return event, nil
}

// Upsert inserts the event or, when a row for (owner_key, day) already
// exists, overwrites its mutable fields in place. The conflict is settled by
// the unique constraint inside a single statement, so two racing upserts for
// the same (owner, day) can never both insert; the loser becomes an update
// of the winner's row. The returned event carries the surviving row's id.
func (r *EventRepository) Upsert(ctx context.Context, event types.Event) (types.Event, error) {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	const query = `
		INSERT INTO events (id, owner_key, day, title, note, event_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_key, day) DO UPDATE
		SET title = EXCLUDED.title,
			note = EXCLUDED.note,
			event_time = EXCLUDED.event_time,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.ID,
		event.OwnerKey,
		event.Day,
		event.Title,
		event.Note,
		nullString(event.Time),
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&event.ID, &event.CreatedAt); err != nil {
		return types.Event{}, err
	}
	return event, nil
}

// DeleteByOwnerDay removes the owner's event on the given day, if any, and
// reports how many rows went away. Zero is not an error.
func (r *EventRepository) DeleteByOwnerDay(ctx context.Context, ownerKey string, day types.Date) (int64, error) {
	const query = `DELETE FROM events WHERE owner_key = $1 AND day = $2`
	result, err := r.db.ExecContext(ctx, query, ownerKey, day)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *EventRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM events WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (types.Event, error) {
	var event types.Event
	var eventTime sql.NullString
	if err := row.Scan(
		&event.ID,
		&event.OwnerKey,
		&event.Day,
		&event.Title,
		&event.Note,
		&eventTime,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return types.Event{}, err
	}
	event.Time = eventTime.String
	return event, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
