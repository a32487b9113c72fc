// ratelimit_test.go: Tests for per-endpoint request quotas.

package api

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wownom/feedback-collector/internal/datastore"
)

func TestStatsRateLimit(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	// Re-register routes with a tiny stats quota
	controller.Settings.WebServer.RateLimit.Stats = 2
	e = echo.New()
	controller = New(e, mockDS, controller.Settings, nil, nil)

	mockDS.On("TopCorrectedLabels", 5).Return([]datastore.LabelCount{}, nil)

	var codes []int
	for i := 0; i < 4; i++ {
		rec := getStats(e)
		codes = append(codes, rec.Code)
	}

	require.Equal(t, http.StatusOK, codes[0])
	require.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2], "third request must exceed the quota")
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestRateLimitsAreIndependent(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	// Exhausting the stats quota must not affect the export quota
	controller.Settings.WebServer.RateLimit.Stats = 1
	e = echo.New()
	controller = New(e, mockDS, controller.Settings, nil, nil)

	mockDS.On("TopCorrectedLabels", 5).Return([]datastore.LabelCount{}, nil)
	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return([]datastore.Correction{}, nil)

	rec := getStats(e)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = getStats(e)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = getExport(e, "?format=jsonl")
	assert.Equal(t, http.StatusOK, rec.Code, "export quota must be unaffected by stats quota")
}

func TestRateLimitResponseBody(t *testing.T) {
	e, mockDS, controller := setupTestEnvironment(t)

	controller.Settings.WebServer.RateLimit.Stats = 1
	e = echo.New()
	controller = New(e, mockDS, controller.Settings, nil, nil)

	mockDS.On("TopCorrectedLabels", 5).Return([]datastore.LabelCount{}, nil)

	rec := getStats(e)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getStats(e)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}
