// internal/api/exports.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/export"
)

// exportBatchSize is how many corrections are fetched from the store per query
// while streaming an export
const exportBatchSize = 500

// ExportCorrections streams all corrections in JSONL or CSV format, oldest
// first. Records are fetched and written incrementally so memory use stays
// bounded regardless of how many corrections exist.
func (c *Controller) ExportCorrections(ctx echo.Context) error {
	formatParam := ctx.QueryParam("format")
	if formatParam == "" {
		formatParam = string(export.FormatJSONL)
	}

	format, err := export.ParseFormat(formatParam)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid export format", http.StatusUnprocessableEntity)
	}

	res := ctx.Response()

	// The response status is committed on the first streamed record. Store
	// failures before that point still produce a proper 500.
	started := false
	records := 0
	var encoder export.Encoder

	start := func() {
		res.Header().Set(echo.HeaderContentType, format.ContentType())
		res.Header().Set(echo.HeaderContentDisposition, "attachment; filename="+format.Filename())
		res.WriteHeader(http.StatusOK)
		encoder = export.NewEncoder(format, res)
		started = true
	}

	err = c.DS.ForEachCorrection(ctx.Request().Context(), exportBatchSize, func(correction *datastore.Correction) error {
		if !started {
			start()
		}
		if err := encoder.Encode(correction); err != nil {
			return err
		}
		records++
		res.Flush()
		return nil
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.Feedback.RecordExportRequest(string(format), "error")
		}
		if started {
			// Headers are already sent, terminating the stream is all we can do
			return err
		}
		return c.HandleError(ctx, err, "Failed to export corrections", http.StatusInternalServerError)
	}

	if !started {
		start()
	}
	if err := encoder.Close(); err != nil {
		if c.metrics != nil {
			c.metrics.Feedback.RecordExportRequest(string(format), "error")
		}
		return err
	}
	res.Flush()

	if c.metrics != nil {
		c.metrics.Feedback.RecordExportRequest(string(format), "success")
		c.metrics.Feedback.RecordExportedRecords(string(format), records)
	}

	c.Debug("exported %d corrections as %s", records, format)

	return nil
}
