package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/woorical/apiserver/internal/services"
	"github.com/woorical/apiserver/types"
)

// EventHandler provides HTTP handlers for calendar events.
type EventHandler struct {
	eventService *services.EventService
	userService  *services.UserService
}

// NewEventHandler constructs a handler with the provided services.
func NewEventHandler(eventService *services.EventService, userService *services.UserService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		userService:  userService,
	}
}

// EventRouter registers event routes on the given router. Reads are open;
// mutations authenticate against the passcode carried in the request body.
func EventRouter(r chi.Router, eventService *services.EventService, userService *services.UserService) {
	handler := NewEventHandler(eventService, userService)

	r.Get("/events", handler.ListEvents)
	r.Post("/events/upsert", handler.UpsertEvent)
	r.Post("/events/delete", handler.DeleteEvent)
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.eventService.List(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	byKey := make(map[string]types.User, len(users))
	for _, user := range users {
		byKey[user.Key] = user
	}

	out := make([]EventOut, 0, len(events))
	for _, event := range events {
		out = append(out, newEventOut(event, byKey))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventHandler) UpsertEvent(w http.ResponseWriter, r *http.Request) {
	var req EventUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, ok := h.authenticate(w, r, req.Key, req.Passcode)
	if !ok {
		return
	}

	event, err := h.eventService.Upsert(r.Context(), user.Key, req.Day, req.Title, req.Note, req.Time)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOutOfRange),
			errors.Is(err, services.ErrEmptyTitle),
			errors.Is(err, services.ErrInvalidTime):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to save event")
		}
		return
	}

	writeJSON(w, http.StatusOK, EventUpsertResponse{OK: true, Event: newEventOut(event, map[string]types.User{user.Key: user})})
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var req EventDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" && req.Day == nil {
		writeError(w, http.StatusBadRequest, "day or id is required")
		return
	}

	user, ok := h.authenticate(w, r, req.Key, req.Passcode)
	if !ok {
		return
	}

	var deleted int64
	var err error
	if req.ID != "" {
		deleted, err = h.eventService.DeleteByID(r.Context(), user.Key, req.ID)
	} else {
		deleted, err = h.eventService.Delete(r.Context(), user.Key, *req.Day)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrOutOfRange):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete event")
		}
		return
	}

	writeJSON(w, http.StatusOK, EventDeleteResponse{OK: true, Deleted: deleted})
}

// authenticate resolves the body credentials to a user, writing the error
// response itself when verification fails.
func (h *EventHandler) authenticate(w http.ResponseWriter, r *http.Request, key, passcode string) (types.User, bool) {
	if strings.TrimSpace(key) == "" || passcode == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return types.User{}, false
	}

	user, err := h.userService.Authenticate(r.Context(), key, passcode)
	if err != nil {
		writeAuthError(w, err)
		return types.User{}, false
	}
	return user, true
}

// EventUpsertRequest carries credentials plus the event payload.
type EventUpsertRequest struct {
	Key      string     `json:"key"`
	Passcode string     `json:"passcode"`
	Day      types.Date `json:"day"`
	Title    string     `json:"title"`
	Note     string     `json:"note"`
	Time     string     `json:"time"`
}

// EventDeleteRequest targets either a day (the caller's own event on that
// day) or an explicit event id.
type EventDeleteRequest struct {
	Key      string      `json:"key"`
	Passcode string      `json:"passcode"`
	Day      *types.Date `json:"day,omitempty"`
	ID       string      `json:"id,omitempty"`
}

// EventOut is an event decorated with its owner's display fields.
type EventOut struct {
	ID        string     `json:"id"`
	Day       types.Date `json:"day"`
	OwnerKey  string     `json:"owner_key"`
	OwnerName string     `json:"owner_name"`
	Color     string     `json:"color"`
	Title     string     `json:"title"`
	Note      string     `json:"note"`
	Time      string     `json:"time,omitempty"`
}

type EventUpsertResponse struct {
	OK    bool     `json:"ok"`
	Event EventOut `json:"event"`
}

type EventDeleteResponse struct {
	OK      bool  `json:"ok"`
	Deleted int64 `json:"deleted"`
}

func newEventOut(event types.Event, usersByKey map[string]types.User) EventOut {
	out := EventOut{
		ID:       event.ID,
		Day:      event.Day,
		OwnerKey: event.OwnerKey,
		Title:    event.Title,
		Note:     event.Note,
		Time:     event.Time,
	}
	if owner, ok := usersByKey[event.OwnerKey]; ok {
		out.OwnerName = owner.Name
		out.Color = owner.Color
	} else {
		out.OwnerName = event.OwnerKey
		out.Color = "#999999"
	}
	return out
}

func parseDateParam(r *http.Request, name string) (*types.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := types.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
