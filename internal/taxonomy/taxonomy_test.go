package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wownom/feedback-collector/internal/conf"
	"github.com/wownom/feedback-collector/internal/datastore"
)

const taxonomyJSON = `{
	"dishes": [
		{
			"id": "fried_rice",
			"name": "Fried Rice",
			"aliases": ["chahan"],
			"ingredients": ["rice", "egg"],
			"macros_per_100g": {"kcal": 163, "protein": 4.2}
		},
		{
			"id": "tonkotsu_ramen",
			"name": "Tonkotsu Ramen",
			"aliases": [],
			"ingredients": ["noodles", "pork broth"],
			"macros_per_100g": {"kcal": 131}
		}
	]
}`

func createTestStore(t *testing.T) datastore.Interface {
	t.Helper()
	settings := &conf.Settings{}
	settings.Output.AutoMigrate = true
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	ds := datastore.New(settings)
	require.NoError(t, ds.Open())
	t.Cleanup(func() {
		assert.NoError(t, ds.Close())
	})
	return ds
}

func writeTaxonomyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	ds := createTestStore(t)
	path := writeTaxonomyFile(t, taxonomyJSON)

	result, err := Load(ds, path)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.Loaded)

	count, err := ds.CountTaxonomyEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	ds := createTestStore(t)
	path := writeTaxonomyFile(t, taxonomyJSON)

	_, err := Load(ds, path)
	require.NoError(t, err)

	result, err := Load(ds, path)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Zero(t, result.Loaded)

	count, err := ds.CountTaxonomyEntries()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "second load must not duplicate entries")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	ds := createTestStore(t)

	result, err := Load(ds, filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	count, err := ds.CountTaxonomyEntries()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoadMalformedDocument(t *testing.T) {
	t.Parallel()

	ds := createTestStore(t)
	path := writeTaxonomyFile(t, `{"dishes": [`)

	_, err := Load(ds, path)
	assert.Error(t, err)
}

func TestLoadRejectsDishWithoutID(t *testing.T) {
	t.Parallel()

	ds := createTestStore(t)
	path := writeTaxonomyFile(t, `{"dishes": [{"name": "Mystery Dish"}]}`)

	_, err := Load(ds, path)
	assert.Error(t, err)

	count, err := ds.CountTaxonomyEntries()
	require.NoError(t, err)
	assert.Zero(t, count, "nothing may be inserted when validation fails")
}
