package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stanstork/batchboard-api/internal/handlers"
)

// NewRouter sets up the API routes
func NewRouter(
	health *handlers.HealthHandler,
	sla *handlers.SLAHandler,
	overall *handlers.OverallStatusHandler,
	banners *handlers.BannerHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", health.HealthCheck).Methods(http.MethodGet)

	// Raw SLA feed, the contract the live provider consumes
	router.HandleFunc("/api/sla", sla.Raw).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/overallstatus", overall.Get).Methods(http.MethodGet)

	api.HandleFunc("/sla/series", sla.Series).Methods(http.MethodGet)
	// POST takes the filters as a JSON body
	api.HandleFunc("/sla/rows", sla.Rows).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/sla/export", sla.Export).Methods(http.MethodGet, http.MethodPost)

	api.HandleFunc("/banners", banners.List).Methods(http.MethodGet)
	api.HandleFunc("/banners", banners.Create).Methods(http.MethodPost)
	api.HandleFunc("/banners/{bannerID}", banners.Update).Methods(http.MethodPut)

	return router
}
