// Package taxonomy loads the static dish reference data into the database.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/errors"
)

// dishDocument is the on-disk shape of the taxonomy file.
type dishDocument struct {
	Dishes []dishEntry `json:"dishes"`
}

type dishEntry struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Aliases       []string           `json:"aliases"`
	Ingredients   []string           `json:"ingredients"`
	MacrosPer100g map[string]float64 `json:"macros_per_100g"`
}

// LoadResult reports what the loader did.
type LoadResult struct {
	// Loaded is the number of dishes inserted, zero when skipped.
	Loaded int
	// Skipped is true when the taxonomy table was already populated or the
	// source file does not exist.
	Skipped bool
	// Reason explains a skip in human terms.
	Reason string
}

// Load reads the taxonomy JSON document at path and inserts its dishes into the
// reference table. The load is idempotent: if the table already holds any rows,
// or the file does not exist, nothing is written and the result reports a skip.
func Load(ds datastore.Interface, path string) (LoadResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return LoadResult{Skipped: true, Reason: "taxonomy file not found"}, nil
	}

	count, err := ds.CountTaxonomyEntries()
	if err != nil {
		return LoadResult{}, errors.New(err).
			Component("taxonomy").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}
	if count > 0 {
		return LoadResult{Skipped: true, Reason: "taxonomy already loaded"}, nil
	}

	entries, err := parseFile(path)
	if err != nil {
		return LoadResult{}, err
	}

	if err := ds.InsertTaxonomyEntries(entries); err != nil {
		return LoadResult{}, errors.New(err).
			Component("taxonomy").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Context("entries", len(entries)).
			Build()
	}

	return LoadResult{Loaded: len(entries)}, nil
}

// LoadAtStartup wraps Load for application boot: failures are logged and
// swallowed so a broken taxonomy file never prevents the service from serving
// feedback traffic.
func LoadAtStartup(ds datastore.Interface, path string, logger *slog.Logger) {
	result, err := Load(ds, path)
	switch {
	case err != nil:
		logger.Warn("taxonomy load failed, continuing without reference data",
			"path", path, "error", err)
	case result.Skipped:
		logger.Info("taxonomy load skipped", "path", path, "reason", result.Reason)
	default:
		logger.Info("taxonomy loaded", "path", path, "dishes", result.Loaded)
	}
}

func parseFile(path string) ([]datastore.DishTaxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("taxonomy").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var doc dishDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(fmt.Errorf("parsing taxonomy document: %w", err)).
			Component("taxonomy").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	entries := make([]datastore.DishTaxonomy, 0, len(doc.Dishes))
	for i := range doc.Dishes {
		dish := &doc.Dishes[i]
		if dish.ID == "" || dish.Name == "" {
			return nil, errors.Newf("taxonomy dish at index %d is missing id or name", i).
				Component("taxonomy").
				Category(errors.CategoryFileParsing).
				Context("path", path).
				Build()
		}
		entries = append(entries, datastore.DishTaxonomy{
			ID:            dish.ID,
			Name:          dish.Name,
			Aliases:       dish.Aliases,
			Ingredients:   dish.Ingredients,
			MacrosPer100g: dish.MacrosPer100g,
			IsActive:      true,
		})
	}
	return entries, nil
}
