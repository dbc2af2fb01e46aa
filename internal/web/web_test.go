package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaycal/internal/config"
	"holidaycal/internal/holiday"
	"holidaycal/internal/model"
	"holidaycal/internal/scheduler"
	"holidaycal/internal/store"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *store.Store) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	cfg.Normalize()

	now := func() time.Time { return time.Date(2024, time.November, 1, 12, 0, 0, 0, time.UTC) }
	st := store.New()
	srv := NewServer(cfg, st, scheduler.NewRefresher(cfg, st, nil).WithClock(now))
	srv.now = now
	return srv, st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHolidays(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/holidays?start=2024&end=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp holidaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.StartYear)
	assert.Equal(t, len(holiday.Rules()), resp.Count)
	assert.Equal(t, "2024-01-01", resp.Events[0].DateString())
}

func TestHolidays_DefaultWindowAndCategory(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/holidays?category=holiday", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp holidaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2023, resp.StartYear)
	assert.Equal(t, 2026, resp.EndYear)
	assert.Equal(t, 4*11, resp.Count)
	for _, ev := range resp.Events {
		assert.Equal(t, holiday.CategoryHoliday, ev.Category)
	}
}

func TestHolidays_BadQuery(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, q := range []string{"start=abc", "end=12", "category=party", "start=1900&end=2100"} {
		rec := do(t, srv.Handler(), http.MethodGet, "/api/holidays?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHolidaysICS(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/holidays.ics?start=2024&end=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "DTSTART;VALUE=DATE:20240704")
}

func TestEvents_Lifecycle(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, st.Stats().Holidays)

	body := `{"id":"dentist","title":"Dentist","start":"2024-11-28T15:00:00Z","end":"2024-11-28T16:00:00Z"}`
	rec = do(t, h, http.MethodPost, "/api/events", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved model.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, model.SourceUser, saved.Source)

	rec = do(t, h, http.MethodGet, "/api/events?from=2024-11-28&to=2024-11-29", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list eventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Events, 2)
	titles := []string{list.Events[0].Title, list.Events[1].Title}
	assert.Contains(t, titles, "Dentist")
	assert.Contains(t, titles, "🦃 Thanksgiving Day")

	rec = do(t, h, http.MethodGet, "/api/events/dentist", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/events/dentist", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/events/dentist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/events/dentist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvents_TimedWithoutEnd(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/events", `{"id":"call","title":"Call","start":"2024-03-02T09:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved model.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.True(t, saved.End.Equal(saved.Start))

	rec = do(t, h, http.MethodGet, "/api/events?from=2024-03-02&to=2024-03-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list eventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Events, 1)
	assert.Equal(t, "Call", list.Events[0].Title)
}

func TestEvents_Rejects(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()
	require.NoError(t, srv.refresher.RefreshAll(t.Context()))

	rec := do(t, h, http.MethodPost, "/api/events", `{"id":"x"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/events", `{"id":"x","title":"X","start":"2024-01-01T00:00:00Z","color":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec = do(t, h, http.MethodPost, "/api/events", `{"id":"x","title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	holidays := st.Between(holiday.Date(2024, time.July, 4), holiday.Date(2024, time.July, 5))
	require.NotEmpty(t, holidays)
	id := holidays[0].ID

	rec = do(t, h, http.MethodPost, "/api/events", `{"id":"`+id+`","title":"Mine","start":"2024-07-04T00:00:00Z"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/events/"+id, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/events?from=2024-02-01&to=2024-01-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/events?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t, func(c *config.Config) { c.Holidays.IncludeObservances = false })
	require.NoError(t, srv.refresher.RefreshAll(t.Context()))

	rec := do(t, srv.Handler(), http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats store.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 4*11, stats.Holidays)
	assert.Zero(t, stats.User)
}

func TestBasicAuth(t *testing.T) {
	srv, _ := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "hunter2"}
	})
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code, "health is always open")

	rec = do(t, h, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.SetBasicAuth("admin", "hunter2")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, secureCompare("abc", "abc"))
	assert.False(t, secureCompare("abc", "abd"))
	assert.False(t, secureCompare("abc", "abcd"))
}
