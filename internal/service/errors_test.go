package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("answer failed: %w", dependencyError(DepRecipeSearch, cause))

	assert.ErrorIs(t, err, cause)
	dep, ok := FailedDependency(err)
	assert.True(t, ok)
	assert.Equal(t, DepRecipeSearch, dep)
	assert.Contains(t, err.Error(), "recipe-search unavailable")

	_, ok = FailedDependency(ErrNoRecipesFound)
	assert.False(t, ok)
}
