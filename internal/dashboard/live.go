package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/provider"
)

// HTTPSource reads the feed from the upstream dashboard API.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

func NewHTTPSource(baseURL string, client *http.Client, timeout time.Duration) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/v1/overallstatus",
		client:   client,
		timeout:  timeout,
	}
}

func (s *HTTPSource) OverallStatus(ctx context.Context) (models.OverallStatus, error) {
	var status models.OverallStatus
	if err := provider.GetJSON(ctx, s.client, s.endpoint, s.timeout, &status); err != nil {
		return models.OverallStatus{}, err
	}
	if status.BatchDetails == nil {
		status.BatchDetails = []models.EnvironmentBatches{}
	}
	return status, nil
}
