package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"holidaycal/internal/config"
	"holidaycal/internal/holiday"
	"holidaycal/internal/ics"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
	"holidaycal/internal/scheduler"
	"holidaycal/internal/store"
)

// maxRequestBody caps JSON bodies on write endpoints.
const maxRequestBody = 1 << 20

// Server exposes the merged calendar and the holiday generator over HTTP.
type Server struct {
	cfg       *config.Config
	store     *store.Store
	refresher *scheduler.Refresher
	mux       *http.ServeMux
	now       func() time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, st *store.Store, refresher *scheduler.Refresher) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		refresher: refresher,
		mux:       http.NewServeMux(),
		now:       time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler, wrapped in basic auth when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured with both
// a username and a password.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="holidaycal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/holidays", s.handleHolidays)
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handlePutEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)
	s.mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /holidays.ics", s.handleHolidaysICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// holidaysResponse is the JSON response shape for /api/holidays.
type holidaysResponse struct {
	StartYear int             `json:"start_year"`
	EndYear   int             `json:"end_year"`
	Count     int             `json:"count"`
	Events    []holiday.Event `json:"events"`
}

// holidayOptionsFromQuery reads start/end/category. Missing years fall back
// to the configured rolling window.
func (s *Server) holidayOptionsFromQuery(r *http.Request) (holiday.Options, error) {
	opts := scheduler.HolidayOptions(s.cfg, s.now())
	q := r.URL.Query()

	if v := q.Get("start"); v != "" {
		y, err := parseYear(v)
		if err != nil {
			return opts, fmt.Errorf("start: %w", err)
		}
		opts.StartYear = y
	}
	if v := q.Get("end"); v != "" {
		y, err := parseYear(v)
		if err != nil {
			return opts, fmt.Errorf("end: %w", err)
		}
		opts.EndYear = y
	}
	if values := q["category"]; len(values) > 0 {
		opts.Categories = nil
		for _, v := range values {
			c, err := holiday.ParseCategory(v)
			if err != nil {
				return opts, err
			}
			opts.Categories = append(opts.Categories, c)
		}
	}
	if opts.EndYear-opts.StartYear > 100 {
		return opts, errors.New("range is limited to 100 years")
	}
	return opts, nil
}

// handleHolidays returns fresh generator output.
//
// GET /api/holidays?start=2024&end=2025&category=Holiday
func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	opts, err := s.holidayOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events := holiday.Generate(opts)
	writeJSON(w, http.StatusOK, holidaysResponse{
		StartYear: opts.StartYear,
		EndYear:   opts.EndYear,
		Count:     len(events),
		Events:    events,
	})
}

// handleHolidaysICS serves the generator output as a subscribable feed.
func (s *Server) handleHolidaysICS(w http.ResponseWriter, r *http.Request) {
	opts, err := s.holidayOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="holidays.ics"`)
	if err := ics.WriteHolidayCalendar(w, holiday.Generate(opts), ics.ExportOptions{Stamp: s.now()}); err != nil {
		appLog.Error("failed to write ICS response", err)
	}
}

// eventsResponse is the JSON response shape for GET /api/events.
type eventsResponse struct {
	From   time.Time     `json:"from"`
	To     time.Time     `json:"to"`
	Events []model.Entry `json:"events"`
}

// handleListEvents returns the merged calendar for [from, to).
//
// GET /api/events?from=2024-01-01&to=2024-02-01
//   - from: defaults to today in the configured timezone
//   - to:   defaults to from + 30 days
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	loc := s.cfg.Location()
	q := r.URL.Query()

	now := s.now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if v := q.Get("from"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from: expected YYYY-MM-DD")
			return
		}
		from = d
	}
	to := from.AddDate(0, 0, 30)
	if v := q.Get("to"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to: expected YYYY-MM-DD")
			return
		}
		to = d
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		From:   from,
		To:     to,
		Events: s.store.Between(from, to),
	})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handlePutEvent adds or replaces a user event.
func (s *Server) handlePutEvent(w http.ResponseWriter, r *http.Request) {
	var in model.Entry
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := s.store.Put(in)
	switch {
	case errors.Is(err, store.ErrReadOnly):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.PathValue("id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrReadOnly):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleRefresh recomputes holidays and re-fetches subscriptions. Partial
// subscription failures are reported but do not fail the request.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	type refreshResponse struct {
		Stats store.Stats `json:"stats"`
		Error string      `json:"error,omitempty"`
	}

	var resp refreshResponse
	if err := s.refresher.RefreshAll(r.Context()); err != nil {
		appLog.Error("api refresh: partial failure", err)
		resp.Error = err.Error()
	}
	resp.Stats = s.store.Stats()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	if y < 1583 || y > 9999 {
		return 0, fmt.Errorf("year %d outside the Gregorian range 1583-9999", y)
	}
	return y, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
