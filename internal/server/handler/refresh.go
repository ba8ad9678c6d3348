package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/superodds/superodds/internal/domain"
)

// RefreshTrigger requests an out-of-band refresh cycle and waits for its
// summary. The orchestrator's loop satisfies this.
type RefreshTrigger interface {
	TriggerRefresh(ctx context.Context) (domain.RefreshSummary, error)
}

// RefreshHandler exposes the synchronous refresh endpoint.
type RefreshHandler struct {
	trigger RefreshTrigger
	logger  *slog.Logger
}

// NewRefreshHandler creates a RefreshHandler with the provided trigger.
func NewRefreshHandler(trigger RefreshTrigger, logger *slog.Logger) *RefreshHandler {
	return &RefreshHandler{trigger: trigger, logger: logger}
}

// TriggerRefresh runs one refresh cycle and returns the summary. The request
// blocks until every provider settles.
// POST /api/events/refresh
func (h *RefreshHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trigger.TriggerRefresh(r.Context())
	if err != nil {
		h.logger.Error("refresh trigger failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "refresh did not complete")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
