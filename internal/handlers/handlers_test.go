package handlers

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/woorical/apiserver/config"
	"github.com/woorical/apiserver/internal/services"
	"github.com/woorical/apiserver/internal/store"
	"github.com/woorical/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

// -------- in-memory repositories --------

type memUserRepo struct {
	users []types.User
}

func (m *memUserRepo) List(ctx context.Context) ([]types.User, error) {
	return append([]types.User(nil), m.users...), nil
}

func (m *memUserRepo) GetByKey(ctx context.Context, key string) (types.User, error) {
	for _, user := range m.users {
		if user.Key == key {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) Seed(ctx context.Context, user types.User) (types.User, error) {
	for i, existing := range m.users {
		if existing.Key == user.Key {
			existing.Name = user.Name
			existing.Color = user.Color
			if existing.PasscodeHash == "" {
				existing.PasscodeHash = user.PasscodeHash
			}
			m.users[i] = existing
			return existing, nil
		}
	}
	user.ID = len(m.users) + 1
	m.users = append(m.users, user)
	return user, nil
}

// memEventRepo mirrors the store semantics: at most one event per
// (owner, day), conflicting upserts keep the first row's id.
type memEventRepo struct {
	byOwnerDay map[string]types.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{byOwnerDay: make(map[string]types.Event)}
}

func ownerDayKey(ownerKey string, day types.Date) string {
	return ownerKey + "|" + day.String()
}

func (m *memEventRepo) ListRange(ctx context.Context, from, to types.Date) ([]types.Event, error) {
	events := make([]types.Event, 0, len(m.byOwnerDay))
	for _, event := range m.byOwnerDay {
		if event.Day.Before(from) || event.Day.After(to) {
			continue
		}
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Day != events[j].Day {
			return events[i].Day.Before(events[j].Day)
		}
		ti, tj := events[i].Time, events[j].Time
		if (ti == "") != (tj == "") {
			return ti != "" // timed events before all-day
		}
		if ti != tj {
			return ti < tj
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (m *memEventRepo) GetByID(ctx context.Context, id string) (types.Event, error) {
	for _, event := range m.byOwnerDay {
		if event.ID == id {
			return event, nil
		}
	}
	return types.Event{}, store.ErrNotFound
}

func (m *memEventRepo) Upsert(ctx context.Context, event types.Event) (types.Event, error) {
	key := ownerDayKey(event.OwnerKey, event.Day)
	if existing, ok := m.byOwnerDay[key]; ok {
		existing.Title = event.Title
		existing.Note = event.Note
		existing.Time = event.Time
		existing.UpdatedAt = event.UpdatedAt
		m.byOwnerDay[key] = existing
		return existing, nil
	}
	m.byOwnerDay[key] = event
	return event, nil
}

func (m *memEventRepo) DeleteByOwnerDay(ctx context.Context, ownerKey string, day types.Date) (int64, error) {
	key := ownerDayKey(ownerKey, day)
	if _, ok := m.byOwnerDay[key]; !ok {
		return 0, nil
	}
	delete(m.byOwnerDay, key)
	return 1, nil
}

func (m *memEventRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	for key, event := range m.byOwnerDay {
		if event.ID == id {
			delete(m.byOwnerDay, key)
			return 1, nil
		}
	}
	return 0, nil
}

// -------- harness --------

func testRoster() []config.RosterEntry {
	return config.DefaultRoster()
}

func testCalendar() config.CalendarConfig {
	return config.CalendarConfig{
		From: types.NewDate(2025, time.December, 1),
		To:   types.NewDate(2026, time.December, 31),
	}
}

func hash(t *testing.T, passcode string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func seededUserRepo(t *testing.T) *memUserRepo {
	t.Helper()
	repo := &memUserRepo{}
	for i, entry := range testRoster() {
		repo.users = append(repo.users, types.User{
			ID:           i + 1,
			Key:          entry.Key,
			Name:         entry.Name,
			Color:        entry.Color,
			PasscodeHash: hash(t, passcodeFor(entry.Key)),
		})
	}
	return repo
}

func passcodeFor(key string) string {
	return "pass-" + key
}

func newTestRouter(t *testing.T) (*chi.Mux, *memUserRepo, *memEventRepo) {
	t.Helper()
	userRepo := seededUserRepo(t)
	eventRepo := newMemEventRepo()

	userService := services.NewUserService(userRepo, testRoster())
	eventService := services.NewEventService(eventRepo, testCalendar())

	router := chi.NewRouter()
	router.Get("/health", Health("friends shared calendar", testCalendar()))
	AuthRouter(router, userService, testJWTSecret)
	EventRouter(router, eventService, userService)
	return router, userRepo, eventRepo
}
