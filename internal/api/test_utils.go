// test_utils.go: Package api provides shared test utilities for API tests.

package api

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/wownom/feedback-collector/internal/conf"
	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/observability"
)

// MockDataStore implements the datastore.Interface for testing
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) SaveCorrection(correction *datastore.Correction, adjustments []datastore.IngredientAdjustment) error {
	args := m.Called(correction, adjustments)
	return args.Error(0)
}

func (m *MockDataStore) GetCorrection(id uint) (datastore.Correction, error) {
	args := m.Called(id)
	return args.Get(0).(datastore.Correction), args.Error(1)
}

func (m *MockDataStore) CountCorrections() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// ForEachCorrection invokes fn for each correction the expectation returns as
// its first value, then returns the expectation's error.
func (m *MockDataStore) ForEachCorrection(ctx context.Context, batchSize int, fn func(correction *datastore.Correction) error) error {
	args := m.Called(ctx, batchSize, fn)
	if corrections, ok := args.Get(0).([]datastore.Correction); ok {
		for i := range corrections {
			if err := fn(&corrections[i]); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockDataStore) TopCorrectedLabels(limit int) ([]datastore.LabelCount, error) {
	args := m.Called(limit)
	if labels, ok := args.Get(0).([]datastore.LabelCount); ok {
		return labels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDataStore) CountTaxonomyEntries() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) InsertTaxonomyEntries(entries []datastore.DishTaxonomy) error {
	args := m.Called(entries)
	return args.Error(0)
}

// testAPIKey is the bearer key accepted by the test controller
const testAPIKey = "test-key-123"

// setupTestEnvironment creates an echo instance, mock datastore and controller
// wired together the same way the server does in production. Requests sent
// through the echo instance pass the full middleware chain, including
// authentication and rate limiting.
func setupTestEnvironment(t *testing.T) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := new(MockDataStore)

	settings := &conf.Settings{
		WebServer: conf.WebServerSettings{
			Debug: true,
			RateLimit: conf.RateLimitSettings{
				Correction: 100,
				Export:     100,
				Stats:      100,
			},
		},
		Security: conf.SecuritySettings{
			APIKeys: []string{testAPIKey},
		},
	}

	logger := log.New(io.Discard, "", 0)

	metrics, err := observability.NewMetrics()
	if err != nil {
		t.Fatalf("Failed to create test metrics: %v", err)
	}

	controller := New(e, mockDS, settings, logger, metrics)

	return e, mockDS, controller
}
