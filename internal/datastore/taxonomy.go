// internal/datastore/taxonomy.go - reference data operations for the dish taxonomy
package datastore

import (
	"fmt"

	"gorm.io/gorm"
)

// CountTaxonomyEntries returns the number of rows in the taxonomy reference table.
func (ds *DataStore) CountTaxonomyEntries() (int64, error) {
	var count int64
	if err := ds.DB.Model(&DishTaxonomy{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting taxonomy entries: %w", err)
	}
	return count, nil
}

// InsertTaxonomyEntries bulk-inserts taxonomy entries in a single transaction.
func (ds *DataStore) InsertTaxonomyEntries(entries []DishTaxonomy) error {
	if len(entries) == 0 {
		return nil
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return fmt.Errorf("inserting taxonomy entry %q: %w", entries[i].ID, err)
			}
		}
		return nil
	})
}
