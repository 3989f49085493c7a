package catalog

import (
	"errors"
	"fmt"
)

// Common errors returned by the catalog store.
var (
	// ErrUnknownApp is returned when an application scope is not recognized.
	ErrUnknownApp = errors.New("unknown application scope")

	// ErrUnknownReference is returned when an include chain references a
	// template or include that does not exist in the catalog.
	ErrUnknownReference = errors.New("unknown template or include reference")
)

// LoadError indicates a catalog source could not be loaded or failed
// validation. Source identifies the offending file.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load catalog source %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FilterError indicates a catalog search expression could not be compiled
// or evaluated.
type FilterError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter error in %q: %s", e.Expression, e.Reason)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}
