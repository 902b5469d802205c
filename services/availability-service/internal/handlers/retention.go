package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/retention"
)

// RetentionHandler exposes an operator trigger for the purge that otherwise
// runs on the background interval.
type RetentionHandler struct {
	purger *retention.Purger
	logger *slog.Logger
}

func NewRetentionHandler(purger *retention.Purger, logger *slog.Logger) *RetentionHandler {
	return &RetentionHandler{purger: purger, logger: logger}
}

// Purge serves POST /v1/admin/retention/purge.
func (h *RetentionHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req purgeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	result, err := h.purger.PurgeAvailabilityDays(r.Context(), today, req.DryRun)
	if err != nil {
		h.logger.Error("manual retention purge failed", "err", err)
		http.Error(w, "purge failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
