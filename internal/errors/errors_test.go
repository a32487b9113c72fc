package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorBuilder(t *testing.T) {
	baseErr := stderrors.New("database connection failed")

	err := New(baseErr).
		Component("datastore").
		Category(CategoryDatabase).
		Context("operation", "save_correction").
		Build()

	assert.Equal(t, "database connection failed", err.Error())
	assert.Equal(t, "datastore", err.Component)
	assert.Equal(t, CategoryDatabase, err.Category)
	assert.Equal(t, "save_correction", err.GetContext()["operation"])
	assert.True(t, Is(err, baseErr), "enhanced error should unwrap to base error")
}

func TestBuildDefaults(t *testing.T) {
	err := Newf("boom: %d", 42).Build()

	assert.Equal(t, ComponentUnknown, err.Component)
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.Equal(t, "boom: 42", err.Error())
	assert.Nil(t, err.GetContext())
}

func TestCategoryMatching(t *testing.T) {
	a := Newf("a").Category(CategoryValidation).Build()
	b := Newf("b").Category(CategoryValidation).Build()
	c := Newf("c").Category(CategoryDatabase).Build()

	assert.True(t, stderrors.Is(a, b), "errors with the same category should match")
	assert.False(t, stderrors.Is(a, c), "errors with different categories should not match")
}

func TestContextIsCopied(t *testing.T) {
	err := Newf("x").Context("key", "value").Build()

	ctx := err.GetContext()
	ctx["key"] = "mutated"

	assert.Equal(t, "value", err.GetContext()["key"])
}
