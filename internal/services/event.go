package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/woorical/apiserver/config"
	"github.com/woorical/apiserver/internal/store"
	"github.com/woorical/apiserver/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	ListRange(ctx context.Context, from, to types.Date) ([]types.Event, error)
	GetByID(ctx context.Context, id string) (types.Event, error)
	Upsert(ctx context.Context, event types.Event) (types.Event, error)
	DeleteByOwnerDay(ctx context.Context, ownerKey string, day types.Date) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// EventService encapsulates event use-cases. Callers of the mutating
// methods must already hold an authenticated identity; ownerKey always
// comes from that identity, never from unauthenticated request fields.
type EventService struct {
	repo     EventRepository
	calendar config.CalendarConfig
}

func NewEventService(repo EventRepository, calendar config.CalendarConfig) *EventService {
	return &EventService{repo: repo, calendar: calendar}
}

// Bounds returns the configured calendar bounds.
func (s *EventService) Bounds() config.CalendarConfig {
	return s.calendar
}

// List returns events within the requested range, clamped to the configured
// bounds. Nil ends default to the corresponding bound. A clamped range with
// from after to is a caller error (ErrInvalidRange).
func (s *EventService) List(ctx context.Context, from, to *types.Date) ([]types.Event, error) {
	fd := s.calendar.From
	td := s.calendar.To
	if from != nil && from.After(fd) {
		fd = *from
	}
	if to != nil && to.Before(td) {
		td = *to
	}
	if fd.After(td) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListRange(ctx, fd, td)
}

// Upsert creates the owner's event for the given day or replaces it in
// place. Repeat upserts keep the same event id.
func (s *EventService) Upsert(ctx context.Context, ownerKey string, day types.Date, title, note, eventTime string) (types.Event, error) {
	if !s.inRange(day) {
		return types.Event{}, ErrOutOfRange
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return types.Event{}, ErrEmptyTitle
	}

	eventTime = strings.TrimSpace(eventTime)
	if eventTime != "" {
		if _, err := time.Parse("15:04", eventTime); err != nil {
			return types.Event{}, ErrInvalidTime
		}
	}

	return s.repo.Upsert(ctx, types.Event{
		ID:       uuid.NewString(),
		OwnerKey: ownerKey,
		Day:      day,
		Title:    title,
		Note:     strings.TrimSpace(note),
		Time:     eventTime,
	})
}

// Delete removes the owner's event on the given day. Deleting an absent
// event is success with a zero count.
func (s *EventService) Delete(ctx context.Context, ownerKey string, day types.Date) (int64, error) {
	if !s.inRange(day) {
		return 0, ErrOutOfRange
	}
	return s.repo.DeleteByOwnerDay(ctx, ownerKey, day)
}

// DeleteByID removes the event with the given id after checking it belongs
// to ownerKey. The ownership check compares against the stored row, so a
// client cannot delete someone else's event by naming its id.
func (s *EventService) DeleteByID(ctx context.Context, ownerKey, id string) (int64, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if event.OwnerKey != ownerKey {
		return 0, ErrForbidden
	}
	return s.repo.DeleteByID(ctx, id)
}

func (s *EventService) inRange(day types.Date) bool {
	return !day.Before(s.calendar.From) && !day.After(s.calendar.To)
}
