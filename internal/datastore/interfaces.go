// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wownom/feedback-collector/internal/conf"
)

// Interface abstracts the underlying database implementation and defines the interface for database operations.
type Interface interface {
	Open() error
	Close() error
	// corrections
	SaveCorrection(correction *Correction, adjustments []IngredientAdjustment) error
	GetCorrection(id uint) (Correction, error)
	CountCorrections() (int64, error)
	ForEachCorrection(ctx context.Context, batchSize int, fn func(correction *Correction) error) error
	TopCorrectedLabels(limit int) ([]LabelCount, error)
	// taxonomy reference data
	CountTaxonomyEntries() (int64, error)
	InsertTaxonomyEntries(entries []DishTaxonomy) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB       *gorm.DB // GORM database instance
	Settings *conf.Settings
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			DataStore: DataStore{Settings: settings},
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			DataStore: DataStore{Settings: settings},
		}
	default:
		// ValidateSettings guarantees one output is enabled
		return nil
	}
}

// SaveCorrection stores a correction and its associated ingredient adjustments as a
// single transaction in the database. On success the adjustments are attached to the
// correction in submission order, with IDs and the creation timestamp populated.
func (ds *DataStore) SaveCorrection(correction *Correction, adjustments []IngredientAdjustment) error {
	if correction.CreatedAt.IsZero() {
		correction.CreatedAt = time.Now().UTC()
	}

	// Begin a transaction
	tx := ds.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("starting transaction: %w", tx.Error)
	}

	// Roll back the transaction if a panic occurs
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Save the correction within the transaction, adjustments are created explicitly below
	if err := tx.Omit("Adjustments").Create(correction).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("saving correction: %w", err)
	}

	// Assign the correction ID to each adjustment and save them
	for i := range adjustments {
		adjustments[i].CorrectionID = correction.ID
		if err := tx.Create(&adjustments[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("saving adjustment: %w", err)
		}
	}

	// Commit the transaction
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	correction.Adjustments = adjustments
	return nil
}

// GetCorrection retrieves a correction and its adjustments by ID.
func (ds *DataStore) GetCorrection(id uint) (Correction, error) {
	var correction Correction
	err := ds.DB.Preload("Adjustments", adjustmentOrder).First(&correction, id).Error
	if err != nil {
		return Correction{}, fmt.Errorf("getting correction with ID %d: %w", id, err)
	}
	return correction, nil
}

// CountCorrections returns the total number of stored corrections.
func (ds *DataStore) CountCorrections() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Correction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting corrections: %w", err)
	}
	return count, nil
}

// ForEachCorrection iterates over all corrections in ascending ID order, fetching
// rows in batches of batchSize with adjustments preloaded. The callback is invoked
// once per correction; returning an error stops the iteration and is propagated.
// Iteration also stops promptly when ctx is cancelled, for example when an export
// consumer disconnects mid-stream.
func (ds *DataStore) ForEachCorrection(ctx context.Context, batchSize int, fn func(correction *Correction) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}

	var batch []Correction
	result := ds.DB.WithContext(ctx).
		Preload("Adjustments", adjustmentOrder).
		Order("id ASC").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, batchNum int) error {
			for i := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(&batch[i]); err != nil {
					return err
				}
			}
			return nil
		})
	if result.Error != nil {
		return fmt.Errorf("iterating corrections: %w", result.Error)
	}
	return nil
}

// adjustmentOrder preserves submission order when preloading adjustments
func adjustmentOrder(db *gorm.DB) *gorm.DB {
	return db.Order("ingredient_adjustments.id ASC")
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Correction{}, &IngredientAdjustment{}, &DishTaxonomy{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance. SQL statement
// tracing follows the output.debug setting.
func createGormLogger(settings *conf.Settings) logger.Interface {
	logLevel := logger.Warn
	if settings.Output.Debug {
		logLevel = logger.Info
	}

	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logLevel,
			Colorful:      true,
		},
	)
}
