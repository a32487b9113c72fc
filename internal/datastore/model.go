// model.go this code defines the data model for the application
package datastore

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Correction represents one user-submitted fix of a detected dish and weight
type Correction struct {
	ID             uint      `gorm:"primaryKey"`
	ImageID        string    `gorm:"size:200;not null;index:idx_corrections_image_id"`
	OriginalName   string    `gorm:"size:200;not null"`
	OriginalGrams  int       `gorm:"not null"`
	CorrectedName  string    `gorm:"size:200;not null;index:idx_corrections_corrected_name"`
	CorrectedGrams int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"index;not null"`

	Adjustments []IngredientAdjustment `gorm:"foreignKey:CorrectionID;constraint:OnDelete:CASCADE"` // One-to-many relationship with cascade delete
}

// IngredientAdjustment represents a signed per-ingredient gram delta attached to a correction.
// Rows are created atomically with their parent correction and never updated afterwards.
type IngredientAdjustment struct {
	ID           uint    `gorm:"primaryKey"`
	CorrectionID uint    `gorm:"index:idx_adjustments_correction_ingredient;not null"` // Foreign key to associate with Correction
	Ingredient   string  `gorm:"size:100;not null;index:idx_adjustments_correction_ingredient"`
	DeltaGrams   int     `gorm:"not null"` // positive = added, negative = removed
	Notes        *string `gorm:"type:text"`
}

// DishTaxonomy represents static reference data about known dishes. It is populated
// once at startup and never touched by the feedback endpoints.
type DishTaxonomy struct {
	ID            string     `gorm:"primaryKey;size:50"`
	Name          string     `gorm:"size:200;not null;uniqueIndex"`
	Aliases       StringList `gorm:"type:text;not null"`
	Ingredients   StringList `gorm:"type:text;not null"`
	MacrosPer100g MacroMap   `gorm:"type:text;not null"`
	IsActive      bool       `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the default pluralization for the taxonomy reference table
func (DishTaxonomy) TableName() string {
	return "dish_taxonomy"
}

// StringList stores a slice of strings as a JSON-encoded text column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshaling string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	return scanJSONColumn(value, l, "string list")
}

// MacroMap stores per-100g nutrient values as a JSON-encoded text column
type MacroMap map[string]float64

// Value implements driver.Valuer
func (m MacroMap) Value() (driver.Value, error) {
	if m == nil {
		m = MacroMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling macro map: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *MacroMap) Scan(value any) error {
	return scanJSONColumn(value, m, "macro map")
}

func scanJSONColumn(value, target any, what string) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T for %s", value, what)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", what, err)
	}
	return nil
}
