package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func upsertBody(key, day, title, note string) string {
	return fmt.Sprintf(`{"key":%q,"passcode":%q,"day":%q,"title":%q,"note":%q}`,
		key, passcodeFor(key), day, title, note)
}

func listEvents(t *testing.T, router http.Handler, query string) []EventOut {
	t.Helper()
	rec := doJSON(t, router, http.MethodGet, "/events"+query, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []EventOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	return events
}

func TestEventLifecycle(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// HJ creates an event.
	rec := doJSON(t, router, http.MethodPost, "/events/upsert",
		upsertBody("HJ", "2026-01-10", "dinner", ""), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var created EventUpsertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.OK)
	require.Equal(t, "HJ", created.Event.OwnerKey)
	require.Equal(t, "조현준", created.Event.OwnerName)
	require.NotEmpty(t, created.Event.ID)

	// Re-upserting the same day replaces in place: same id, new title,
	// still exactly one event.
	rec = doJSON(t, router, http.MethodPost, "/events/upsert",
		upsertBody("HJ", "2026-01-10", "dinner v2", ""), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated EventUpsertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, created.Event.ID, updated.Event.ID)
	require.Equal(t, "dinner v2", updated.Event.Title)

	events := listEvents(t, router, "")
	require.Len(t, events, 1)
	require.Equal(t, "dinner v2", events[0].Title)

	// SK cannot delete HJ's event by id.
	rec = doJSON(t, router, http.MethodPost, "/events/delete",
		fmt.Sprintf(`{"key":"SK","passcode":%q,"id":%q}`, passcodeFor("SK"), created.Event.ID), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, listEvents(t, router, ""), 1, "the event must survive the forbidden attempt")

	// HJ deletes it, then deletes again: 1 then 0, both successes.
	for _, want := range []int64{1, 0} {
		rec = doJSON(t, router, http.MethodPost, "/events/delete",
			fmt.Sprintf(`{"key":"HJ","passcode":%q,"day":"2026-01-10"}`, passcodeFor("HJ")), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp EventDeleteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.OK)
		require.Equal(t, want, resp.Deleted)
	}
	require.Empty(t, listEvents(t, router, ""))
}

func TestUpsert_RejectsBadInput(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := map[string]string{
		"out of range day": upsertBody("HJ", "2027-06-01", "dinner", ""),
		"blank title":      upsertBody("HJ", "2026-01-10", "   ", ""),
		"malformed day":    `{"key":"HJ","passcode":"pass-HJ","day":"June 1st","title":"x"}`,
	}
	for name, body := range cases {
		rec := doJSON(t, router, http.MethodPost, "/events/upsert", body, nil)
		require.Equalf(t, http.StatusBadRequest, rec.Code, "%s: %s", name, rec.Body.String())
	}
	require.Empty(t, listEvents(t, router, ""), "no event may be created by a rejected request")
}

func TestUpsert_RequiresValidCredentials(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/events/upsert",
		`{"key":"HJ","passcode":"wrong","day":"2026-01-10","title":"dinner"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/events/upsert",
		`{"key":"ZZ","passcode":"x","day":"2026-01-10","title":"dinner"}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/events/upsert",
		`{"day":"2026-01-10","title":"dinner"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Empty(t, listEvents(t, router, ""))
}

func TestListEvents_RangeAndOrdering(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, body := range []string{
		upsertBody("SK", "2026-01-12", "gym", ""),
		fmt.Sprintf(`{"key":"HJ","passcode":%q,"day":"2026-01-11","title":"late","time":"21:00"}`, passcodeFor("HJ")),
		fmt.Sprintf(`{"key":"SK","passcode":%q,"day":"2026-01-11","title":"early","time":"07:00"}`, passcodeFor("SK")),
		upsertBody("JH", "2026-01-11", "all day", ""),
	} {
		rec := doJSON(t, router, http.MethodPost, "/events/upsert", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	events := listEvents(t, router, "")
	require.Len(t, events, 4)
	titles := make([]string, 0, len(events))
	for _, event := range events {
		titles = append(titles, event.Title)
	}
	require.Equal(t, []string{"early", "late", "all day", "gym"}, titles)

	// Range filter.
	events = listEvents(t, router, "?from=2026-01-12&to=2026-01-12")
	require.Len(t, events, 1)
	require.Equal(t, "gym", events[0].Title)

	// Out-of-bounds ends clamp instead of failing.
	events = listEvents(t, router, "?from=2020-01-01&to=2030-01-01")
	require.Len(t, events, 4)
}

func TestListEvents_BadRange(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/events?from=2026-02-02&to=2026-02-01", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/events?from=yesterday", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_RequiresTarget(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/events/delete",
		fmt.Sprintf(`{"key":"HJ","passcode":%q}`, passcodeFor("HJ")), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_ByIDAbsentIsZero(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/events/delete",
		fmt.Sprintf(`{"key":"HJ","passcode":%q,"id":"no-such-id"}`, passcodeFor("HJ")), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventDeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Zero(t, resp.Deleted)
}
