// exports_test.go: Tests for the streaming export endpoint.

package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wownom/feedback-collector/internal/datastore"
)

func getExport(e *echo.Echo, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/feedback/export"+query, http.NoBody)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func exportCorrections() []datastore.Correction {
	note := "extra portion"
	return []datastore.Correction{
		{
			ID:             1,
			ImageID:        "img-1",
			OriginalName:   "Fried Rice",
			OriginalGrams:  250,
			CorrectedName:  "Tonkotsu Ramen",
			CorrectedGrams: 420,
			CreatedAt:      time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
			Adjustments: []datastore.IngredientAdjustment{
				{Ingredient: "Egg", DeltaGrams: -20},
				{Ingredient: "Noodles", DeltaGrams: 50, Notes: &note},
			},
		},
		{
			ID:             2,
			ImageID:        "img-2",
			OriginalName:   "Soup",
			OriginalGrams:  300,
			CorrectedName:  "Miso Soup",
			CorrectedGrams: 280,
			CreatedAt:      time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportJSONL(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return(exportCorrections(), nil)

	rec := getExport(e, "?format=jsonl")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/x-jsonlines")
	assert.Equal(t, "attachment; filename=feedback.jsonl", rec.Header().Get(echo.HeaderContentDisposition))

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.EqualValues(t, 1, first["id"])
	assert.Equal(t, "img-1", first["imageId"])
	assert.Equal(t, "2025-06-01T12:30:00Z", first["createdAt"])
	adjustments, ok := first["adjustments"].([]any)
	require.True(t, ok)
	assert.Len(t, adjustments, 2)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	_, present := second["adjustments"]
	assert.False(t, present, "adjustments key must be absent without adjustments")
}

func TestExportDefaultsToJSONL(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return(exportCorrections(), nil)

	rec := getExport(e, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/x-jsonlines")
}

func TestExportCSV(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return(exportCorrections(), nil)

	rec := getExport(e, "?format=csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Equal(t, "attachment; filename=feedback.csv", rec.Header().Get(echo.HeaderContentDisposition))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"id", "imageId", "original_name", "original_grams",
		"corrected_name", "corrected_grams", "adjustments", "createdAt",
	}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.NotEmpty(t, records[1][6], "adjustments cell should carry the JSON blob")
	assert.Empty(t, records[2][6], "adjustments cell must be empty without adjustments")
}

func TestExportEmptyJSONL(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return([]datastore.Correction{}, nil)

	rec := getExport(e, "?format=jsonl")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len(), "empty correction set must produce zero bytes")
}

func TestExportEmptyCSV(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return([]datastore.Correction{}, nil)

	rec := getExport(e, "?format=csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id,imageId,original_name,original_grams,corrected_name,corrected_grams,adjustments,createdAt\n", rec.Body.String())
}

func TestExportInvalidFormat(t *testing.T) {
	for _, format := range []string{"xml", "json", "JSONL", "csv,jsonl"} {
		t.Run(format, func(t *testing.T) {
			e, mockDS, _ := setupTestEnvironment(t)

			rec := getExport(e, "?format="+format)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			mockDS.AssertNotCalled(t, "ForEachCorrection", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExportStoreFailure(t *testing.T) {
	e, mockDS, _ := setupTestEnvironment(t)

	mockDS.On("ForEachCorrection", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("query failed"))

	rec := getExport(e, "?format=jsonl")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to export corrections", resp.Message)
}
