// internal/datastore/analytics.go
package datastore

import (
	"fmt"
)

// LabelCount pairs a corrected dish label with the number of corrections using it
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopCorrectedLabels returns the most frequent corrected dish labels, ordered by
// count descending with ties broken by label name ascending. Fewer than limit rows
// are returned when fewer distinct labels exist.
func (ds *DataStore) TopCorrectedLabels(limit int) ([]LabelCount, error) {
	var results []LabelCount

	err := ds.DB.Model(&Correction{}).
		Select("corrected_name AS label, COUNT(*) AS count").
		Group("corrected_name").
		Order("count DESC").
		Order("corrected_name ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error getting top corrected labels: %w", err)
	}

	return results, nil
}
