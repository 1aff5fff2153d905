package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  int
		wantLevel string
	}{
		{
			name:      "implicit ok",
			handler:   func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("hello")) },
			wantCode:  http.StatusOK,
			wantLevel: "info",
		},
		{
			name:      "client error",
			handler:   func(w http.ResponseWriter, r *http.Request) { http.Error(w, "nope", http.StatusBadRequest) },
			wantCode:  http.StatusBadRequest,
			wantLevel: "warn",
		},
		{
			name:      "upstream error",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			wantCode:  http.StatusBadGateway,
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			handler := LoggingMiddleware(logger)(tt.handler)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sla/rows?page=2", nil))
			assert.Equal(t, tt.wantCode, rr.Code)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/api/v1/sla/rows", entry["path"])
			assert.Equal(t, float64(tt.wantCode), entry["status"])
			assert.Equal(t, "http", entry["component"])
		})
	}
}
