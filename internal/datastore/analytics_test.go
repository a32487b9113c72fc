package datastore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveCorrectionWithLabel(t *testing.T, ds Interface, label string) {
	t.Helper()
	correction := Correction{
		ImageID:        "img-stats",
		OriginalName:   "Dish",
		OriginalGrams:  100,
		CorrectedName:  label,
		CorrectedGrams: 120,
	}
	require.NoError(t, ds.SaveCorrection(&correction, nil))
}

func TestTopCorrectedLabels(t *testing.T) {
	t.Parallel()

	settings := createTestSettings(t)
	ds := createDatabase(t, settings)

	labels := []string{"Ramen", "Ramen", "Ramen", "Curry", "Curry", "Sushi"}
	for _, label := range labels {
		saveCorrectionWithLabel(t, ds, label)
	}

	results, err := ds.TopCorrectedLabels(5)
	require.NoError(t, err)

	expected := []LabelCount{
		{Label: "Ramen", Count: 3},
		{Label: "Curry", Count: 2},
		{Label: "Sushi", Count: 1},
	}
	assert.Equal(t, expected, results)
}

func TestTopCorrectedLabelsTieBreak(t *testing.T) {
	t.Parallel()

	settings := createTestSettings(t)
	ds := createDatabase(t, settings)

	// Equal counts must be ordered alphabetically by label
	for _, label := range []string{"Udon", "Bibimbap", "Pho"} {
		saveCorrectionWithLabel(t, ds, label)
		saveCorrectionWithLabel(t, ds, label)
	}

	results, err := ds.TopCorrectedLabels(5)
	require.NoError(t, err)

	expected := []LabelCount{
		{Label: "Bibimbap", Count: 2},
		{Label: "Pho", Count: 2},
		{Label: "Udon", Count: 2},
	}
	assert.Equal(t, expected, results)
}

func TestTopCorrectedLabelsLimit(t *testing.T) {
	t.Parallel()

	settings := createTestSettings(t)
	ds := createDatabase(t, settings)

	for i := 0; i < 8; i++ {
		saveCorrectionWithLabel(t, ds, fmt.Sprintf("Dish %d", i))
	}

	results, err := ds.TopCorrectedLabels(5)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestTopCorrectedLabelsEmpty(t *testing.T) {
	t.Parallel()

	settings := createTestSettings(t)
	ds := createDatabase(t, settings)

	results, err := ds.TopCorrectedLabels(5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
