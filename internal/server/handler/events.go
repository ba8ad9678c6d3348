package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/superodds/superodds/internal/domain"
	"github.com/superodds/superodds/internal/service"
)

const (
	defaultListWindow = 72 * time.Hour
	maxListLimit      = 500
)

// EventsHandler serves merged event documents.
type EventsHandler struct {
	events *service.EventService
	logger *slog.Logger
}

// NewEventsHandler creates an EventsHandler with the provided service.
func NewEventsHandler(events *service.EventService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{events: events, logger: logger}
}

// GetEvent returns one merged document by normalized identity.
// GET /api/events/{identity}
func (h *EventsHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	identity := pathParam(r, "identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing event identity")
		return
	}

	ev, err := h.events.GetByIdentity(r.Context(), identity)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event failed",
			slog.String("identity", identity),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return
	}

	writeJSON(w, http.StatusOK, ev)
}

// ListEvents returns upcoming merged documents, optionally filtered by sport
// and time window.
// GET /api/events?sport=Futebol&from=2025-12-03T00:00:00Z&to=...&limit=100
func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from := time.Now().UTC()
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		from = t.UTC()
	}

	to := from.Add(defaultListWindow)
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		to = t.UTC()
	}
	if !to.After(from) {
		writeError(w, http.StatusBadRequest, "to must be after from")
		return
	}

	limit := queryInt(r, "limit", 100)
	if limit > maxListLimit {
		limit = maxListLimit
	}

	events, err := h.events.ListUpcoming(r.Context(), q.Get("sport"), from, to, limit)
	if err != nil {
		h.logger.Error("list events failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []domain.UnifiedEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}
