package aws

import (
	"errors"
	"fmt"
)

var errNotFound = errors.New("not found")

// FetchError wraps an API failure with the resource level and the
// identifier that was being fetched, so the UI can report exactly what
// failed and offer retry or back-navigation.
type FetchError struct {
	Kind string // "clusters", "services", "tasks", ...
	ID   string // parent identifier, empty at the top level
	Err  error
}

func (e *FetchError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to fetch %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s for %q: %v", e.Kind, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func fetchErr(kind, id string, err error) error {
	return &FetchError{Kind: kind, ID: id, Err: err}
}
