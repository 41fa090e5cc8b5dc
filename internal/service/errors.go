package service

import (
	"errors"
	"fmt"
)

// Dependency names reported by DependencyError
const (
	DepRecipeSearch   = "recipe-search"
	DepRecipeStore    = "recipe-store"
	DepTextGeneration = "text-generation"
	DepRelevanceScore = "relevance-scoring"
	DepChoiceStore    = "choice-store"
)

var (
	// ErrNoRecipesFound means filtering or boosting left no candidates. It is an outcome, not a failure.
	ErrNoRecipesFound = errors.New("no recipes found")
	// ErrInvalidQuery is returned for blank query text
	ErrInvalidQuery = errors.New("query text is required")
	// ErrSessionNotFound is returned when a choice session expired or never existed
	ErrSessionNotFound = errors.New("choice session not found")
	// ErrInvalidChoice is returned when the selected index is outside the stored choices
	ErrInvalidChoice = errors.New("selected choice is out of range")
)

// DependencyError marks a failure of an external collaborator that aborts the request
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func dependencyError(dep string, err error) error {
	return &DependencyError{Dependency: dep, Err: err}
}

// FailedDependency returns the dependency name if err wraps a DependencyError
func FailedDependency(err error) (string, bool) {
	var depErr *DependencyError
	if errors.As(err, &depErr) {
		return depErr.Dependency, true
	}
	return "", false
}
