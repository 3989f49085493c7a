package model

import (
	"errors"
	"fmt"
)

// Common errors returned by document mutations.
var (
	// ErrUnknownApp is returned for an application scope other than
	// radarr or sonarr.
	ErrUnknownApp = errors.New("unknown application scope")

	// ErrUnknownProfile is returned when a score override references a
	// profile that does not exist in the instance.
	ErrUnknownProfile = errors.New("unknown quality profile")

	// ErrUnknownSelection is returned when an override targets a custom
	// format that is not selected in the instance.
	ErrUnknownSelection = errors.New("custom format is not selected")
)

// DuplicateNameError indicates an instance or profile name is already
// taken within its scope.
type DuplicateNameError struct {
	Kind string // "instance" or "profile"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s name %q already exists", e.Kind, e.Name)
}
