package profile

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned when an operation references a node identity
// that is not part of the profile tree.
var ErrUnknownNode = errors.New("unknown node")

// DuplicateNameError indicates a quality or group name already exists in
// the profile tree. Names are unique across the whole tree, not just
// among siblings.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q already exists in profile", e.Name)
}

// InvalidSelectionError indicates a grouping or ungrouping operation was
// rejected; the tree is left untouched.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s", e.Reason)
}
