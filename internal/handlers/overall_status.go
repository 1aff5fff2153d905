package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/models"
)

type overallStatusSource interface {
	OverallStatus(ctx context.Context) (models.OverallStatus, error)
}

type OverallStatusHandler struct {
	source overallStatusSource
	logger zerolog.Logger
}

func NewOverallStatusHandler(source overallStatusSource, logger zerolog.Logger) *OverallStatusHandler {
	return &OverallStatusHandler{
		source: source,
		logger: logger.With().Str("handler", "overall_status").Logger(),
	}
}

func (h *OverallStatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.source.OverallStatus(r.Context())
	if err != nil {
		writeUpstreamError(w, h.logger, err, "Failed to load overall status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}
