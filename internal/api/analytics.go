// internal/api/analytics.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wownom/feedback-collector/internal/datastore"
)

// statsLimit is how many top corrected labels the stats endpoint returns
const statsLimit = 5

// StatsResponse is the GET /stats payload
type StatsResponse struct {
	Top5 []datastore.LabelCount `json:"top5"`
}

// GetStats returns the most frequent corrected dish labels with their counts
func (c *Controller) GetStats(ctx echo.Context) error {
	results, err := c.DS.TopCorrectedLabels(statsLimit)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get stats", http.StatusInternalServerError)
	}

	// An empty result set serializes as [] rather than null
	if results == nil {
		results = []datastore.LabelCount{}
	}

	if c.metrics != nil {
		c.metrics.Feedback.RecordStatsQuery()
	}

	return ctx.JSON(http.StatusOK, StatsResponse{Top5: results})
}
