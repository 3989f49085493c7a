package generator

import (
	"fmt"
)

// UnresolvedReferenceError indicates an instance references a catalog
// identifier that does not exist. Generation aborts; no partial output
// is produced.
type UnresolvedReferenceError struct {
	Kind     string // "template" or "custom format"
	Ref      string
	Instance string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("instance %q references unknown %s %q", e.Instance, e.Kind, e.Ref)
}

// ConflictError indicates a manual-override key collides with a key the
// generator produced. Generation aborts rather than silently dropping
// either side.
type ConflictError struct {
	Key      string
	Instance string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("manual override key %q conflicts with a generated key in instance %q", e.Key, e.Instance)
}
