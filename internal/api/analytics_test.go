// analytics_test.go: Tests for the stats endpoint.

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wownom/feedback-collector/internal/datastore"
)

func getStats(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/feedback/stats", http.NoBody)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetStats(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("TopCorrectedLabels", 5).Return([]datastore.LabelCount{
		{Label: "Tonkotsu Ramen", Count: 3},
		{Label: "Curry", Count: 2},
		{Label: "Sushi", Count: 1},
	}, nil)

	rec := getStats(e)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"top5": [
		{"label": "Tonkotsu Ramen", "count": 3},
		{"label": "Curry", "count": 2},
		{"label": "Sushi", "count": 1}
	]}`, rec.Body.String())

	mockDS.AssertExpectations(t)
}

func TestGetStatsEmpty(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("TopCorrectedLabels", 5).Return([]datastore.LabelCount{}, nil)

	rec := getStats(e)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"top5": []}`, rec.Body.String(), "empty stats must serialize as an empty array")
}

func TestGetStatsStoreFailure(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("TopCorrectedLabels", 5).Return(nil, fmt.Errorf("query failed"))

	rec := getStats(e)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
