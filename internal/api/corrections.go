// internal/api/corrections.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/errors"
)

// Validation bounds for correction payloads
const (
	maxNameLength       = 200
	maxImageIDLength    = 200
	maxIngredientLength = 100
	maxNotesLength      = 500
	minGrams            = 1
	maxGrams            = 10000
)

// DishPortion is a dish name and weight pair in request and response payloads
type DishPortion struct {
	Name  string `json:"name"`
	Grams int    `json:"grams"`
}

// AdjustmentRequest is one per-ingredient gram delta in a correction payload
type AdjustmentRequest struct {
	Ingredient string  `json:"ingredient"`
	DeltaGrams *int    `json:"deltaGrams"`
	Notes      *string `json:"notes"`
}

// CorrectionRequest is the POST /correction payload
type CorrectionRequest struct {
	ImageID     string              `json:"imageId"`
	Original    DishPortion         `json:"original"`
	Corrected   DishPortion         `json:"corrected"`
	Adjustments []AdjustmentRequest `json:"adjustments"`
}

// AdjustmentResponse is one adjustment echoed back to the client
type AdjustmentResponse struct {
	Ingredient string  `json:"ingredient"`
	DeltaGrams int     `json:"deltaGrams"`
	Notes      *string `json:"notes"`
}

// CorrectionResponse echoes a stored correction back to the client. Adjustments
// is null when the correction has none.
type CorrectionResponse struct {
	ID          uint                 `json:"id"`
	ImageID     string               `json:"imageId"`
	Original    DishPortion          `json:"original"`
	Corrected   DishPortion          `json:"corrected"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
	CreatedAt   string               `json:"createdAt"`
}

// decodeCorrectionRequest parses the request body, rejecting unknown fields
// and anything trailing the JSON object
func decodeCorrectionRequest(ctx echo.Context) (*CorrectionRequest, error) {
	decoder := json.NewDecoder(ctx.Request().Body)
	decoder.DisallowUnknownFields()

	var payload CorrectionRequest
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid request body: unexpected content after JSON object")
	}
	return &payload, nil
}

func validatePortion(field string, portion *DishPortion) error {
	if n := utf8.RuneCountInString(portion.Name); n < 1 || n > maxNameLength {
		return fmt.Errorf("%s.name must be 1-%d characters", field, maxNameLength)
	}
	if portion.Grams < minGrams || portion.Grams > maxGrams {
		return fmt.Errorf("%s.grams must be between %d and %d", field, minGrams, maxGrams)
	}
	return nil
}

// Validate checks all payload fields against the intake bounds
func (r *CorrectionRequest) Validate() error {
	if n := utf8.RuneCountInString(r.ImageID); n < 1 || n > maxImageIDLength {
		return fmt.Errorf("imageId must be 1-%d characters", maxImageIDLength)
	}
	if err := validatePortion("original", &r.Original); err != nil {
		return err
	}
	if err := validatePortion("corrected", &r.Corrected); err != nil {
		return err
	}
	for i := range r.Adjustments {
		adj := &r.Adjustments[i]
		if n := utf8.RuneCountInString(adj.Ingredient); n < 1 || n > maxIngredientLength {
			return fmt.Errorf("adjustments[%d].ingredient must be 1-%d characters", i, maxIngredientLength)
		}
		if adj.DeltaGrams == nil {
			return fmt.Errorf("adjustments[%d].deltaGrams is required", i)
		}
		if adj.Notes != nil && utf8.RuneCountInString(*adj.Notes) > maxNotesLength {
			return fmt.Errorf("adjustments[%d].notes must be at most %d characters", i, maxNotesLength)
		}
	}
	return nil
}

// PostCorrection stores a user correction with optional per-ingredient adjustments
func (c *Controller) PostCorrection(ctx echo.Context) error {
	payload, err := decodeCorrectionRequest(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusUnprocessableEntity)
	}
	if err := payload.Validate(); err != nil {
		return c.HandleError(ctx, err, "Invalid correction payload", http.StatusUnprocessableEntity)
	}

	correction := datastore.Correction{
		ImageID:        payload.ImageID,
		OriginalName:   payload.Original.Name,
		OriginalGrams:  payload.Original.Grams,
		CorrectedName:  payload.Corrected.Name,
		CorrectedGrams: payload.Corrected.Grams,
	}

	adjustments := make([]datastore.IngredientAdjustment, 0, len(payload.Adjustments))
	for i := range payload.Adjustments {
		adj := &payload.Adjustments[i]
		adjustments = append(adjustments, datastore.IngredientAdjustment{
			Ingredient: adj.Ingredient,
			DeltaGrams: *adj.DeltaGrams,
			Notes:      adj.Notes,
		})
	}

	if err := c.DS.SaveCorrection(&correction, adjustments); err != nil {
		if c.metrics != nil {
			c.metrics.Feedback.RecordCorrectionSaveError()
		}
		return c.HandleError(ctx, err, "Failed to store correction", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.Feedback.RecordCorrectionSaved(len(adjustments))
	}

	c.Debug("stored correction %d for image %s with %d adjustments",
		correction.ID, correction.ImageID, len(adjustments))

	return ctx.JSON(http.StatusCreated, correctionResponse(&correction))
}

func correctionResponse(correction *datastore.Correction) *CorrectionResponse {
	resp := &CorrectionResponse{
		ID:      correction.ID,
		ImageID: correction.ImageID,
		Original: DishPortion{
			Name:  correction.OriginalName,
			Grams: correction.OriginalGrams,
		},
		Corrected: DishPortion{
			Name:  correction.CorrectedName,
			Grams: correction.CorrectedGrams,
		},
		CreatedAt: correction.CreatedAt.UTC().Format(time.RFC3339),
	}

	for i := range correction.Adjustments {
		adj := &correction.Adjustments[i]
		resp.Adjustments = append(resp.Adjustments, AdjustmentResponse{
			Ingredient: adj.Ingredient,
			DeltaGrams: adj.DeltaGrams,
			Notes:      adj.Notes,
		})
	}
	return resp
}
