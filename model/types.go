// Package model holds the in-memory editing state: instances, their
// quality profiles and custom-format selections, and the document that
// aggregates them. The document is reconstructed in full on every
// generation; the project file is its only persisted form.
package model

import (
	"github.com/recyforge/recyforge/profile"
)

// Selection ties a selected custom format to optional per-profile score
// overrides. A profile missing from Overrides means "use the inferred or
// catalog default score"; a profile where neither exists is omitted from
// the generated assignment list.
type Selection struct {
	TrashID   string
	Overrides map[string]int
}

// Override returns the explicit score for a profile, if one was set.
func (s *Selection) Override(profileName string) (int, bool) {
	score, ok := s.Overrides[profileName]
	return score, ok
}

// Instance is the editable configuration of one Radarr or Sonarr target.
type Instance struct {
	Name   string
	App    string
	BaseURL string
	APIKey  string

	DeleteOldCustomFormats       bool
	ReplaceExistingCustomFormats bool

	// Includes lists selected template/include names in user order.
	Includes []string

	Profiles   []*profile.Profile
	Selections []*Selection

	// ManualOverrides is a free-form YAML mapping merged verbatim into
	// the generated instance block.
	ManualOverrides string
}

// Document is the whole editing session: instances per application scope,
// in user order.
type Document struct {
	Radarr []*Instance
	Sonarr []*Instance
}
