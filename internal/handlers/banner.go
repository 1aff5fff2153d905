package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/banner"
	"github.com/stanstork/batchboard-api/internal/filter"
	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/repository"
)

type BannerHandler struct {
	service banner.Service
	logger  zerolog.Logger
}

func NewBannerHandler(service banner.Service, logger zerolog.Logger) *BannerHandler {
	return &BannerHandler{
		service: service,
		logger:  logger.With().Str("handler", "banner").Logger(),
	}
}

func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeValidation(w, filter.Errors{"active": "must be true or false"})
			return
		}
		activeOnly = parsed
	}

	banners, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list banners")
		http.Error(w, "Failed to list banners", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"banners": banners,
	})
}

func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message  string                `json:"message"`
		Severity models.BannerSeverity `json:"severity"`
		Active   *bool                 `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	b, err := h.service.Publish(r.Context(), banner.Input{
		Message:  payload.Message,
		Severity: payload.Severity,
		Active:   payload.Active,
	})
	if err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	bannerID := strings.TrimSpace(mux.Vars(r)["bannerID"])
	if bannerID == "" {
		http.Error(w, "Banner ID is required", http.StatusBadRequest)
		return
	}

	var payload struct {
		Message  *string                `json:"message"`
		Severity *models.BannerSeverity `json:"severity"`
		Active   *bool                  `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	b, err := h.service.Update(r.Context(), bannerID, banner.Patch{
		Message:  payload.Message,
		Severity: payload.Severity,
		Active:   payload.Active,
	})
	if err != nil {
		h.writeServiceError(w, err, bannerID)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BannerHandler) writeServiceError(w http.ResponseWriter, err error, bannerID string) {
	var verr *banner.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(w, filter.Errors{verr.Field: verr.Message})
	case errors.Is(err, repository.ErrBannerNotFound):
		http.Error(w, "Banner not found", http.StatusNotFound)
	default:
		h.logger.Error().Err(err).Str("banner_id", bannerID).Msg("failed to save banner")
		http.Error(w, "Failed to save banner", http.StatusInternalServerError)
	}
}
