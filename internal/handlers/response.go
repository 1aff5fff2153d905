package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/filter"
	"github.com/stanstork/batchboard-api/internal/provider"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeValidation answers 400 with the field-keyed problems.
func writeValidation(w http.ResponseWriter, errs filter.Errors) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"errors": errs,
	})
}

// writeUpstreamError maps a data source failure to 504 for timeouts and 502
// for everything else. A cancelled request gets no response body.
func writeUpstreamError(w http.ResponseWriter, logger zerolog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("request cancelled")
	case errors.Is(err, provider.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg(msg)
		http.Error(w, msg+": upstream timed out", http.StatusGatewayTimeout)
	default:
		logger.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusBadGateway)
	}
}
