package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"plangate/internal/adminmetrics"
	"plangate/internal/auditlog"
	dErrors "plangate/pkg/domain-errors"
	"plangate/pkg/platform/httputil"
)

// AdminHandler exposes the administrative metrics snapshot.
type AdminHandler struct {
	metrics *adminmetrics.Builder
	logger  *slog.Logger
}

func NewAdminHandler(metrics *adminmetrics.Builder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{metrics: metrics, logger: logger}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/admin/metrics", h.snapshot)
}

// snapshot builds the activity snapshot. Optional "from" and "to" query
// parameters (RFC 3339) bound the range inclusively.
func (h *AdminHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	var timeRange auditlog.TimeRange

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "from must be RFC 3339"))
			return
		}
		timeRange.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "to must be RFC 3339"))
			return
		}
		timeRange.To = &t
	}

	snapshot, err := h.metrics.Snapshot(r.Context(), timeRange)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}
