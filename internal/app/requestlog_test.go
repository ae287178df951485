package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/websession/internal/app"
	"github.com/dmitrymomot/websession/pkg/environment"
	"github.com/dmitrymomot/websession/pkg/logger"
)

func TestRequestIDInLogs(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithLevelName("debug"),
		logger.WithContextExtractors(app.RequestIDExtractor),
	)

	h := app.New(newManager(t, environment.Development), app.WithLogger(log)).Router()

	r := httptest.NewRequest(http.MethodGet, app.HealthPath, nil)
	r.Header.Set("X-Request-Id", "req-42")
	h.ServeHTTP(httptest.NewRecorder(), r)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, "http", entry["component"])
}
