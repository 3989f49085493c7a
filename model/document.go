package model

import (
	"fmt"

	"github.com/recyforge/recyforge/profile"
)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) instanceList(app string) (*[]*Instance, error) {
	switch app {
	case "radarr":
		return &d.Radarr, nil
	case "sonarr":
		return &d.Sonarr, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
}

// Instances returns the instances for an app scope in document order.
func (d *Document) Instances(app string) []*Instance {
	switch app {
	case "radarr":
		return d.Radarr
	case "sonarr":
		return d.Sonarr
	}
	return nil
}

// Instance looks up an instance by app scope and name.
func (d *Document) Instance(app, name string) (*Instance, bool) {
	for _, inst := range d.Instances(app) {
		if inst.Name == name {
			return inst, true
		}
	}
	return nil, false
}

// AddInstance creates a new instance in the given app scope. Instance
// names are unique within their scope.
func (d *Document) AddInstance(app, name string) (*Instance, error) {
	list, err := d.instanceList(app)
	if err != nil {
		return nil, err
	}
	if _, exists := d.Instance(app, name); exists {
		return nil, &DuplicateNameError{Kind: "instance", Name: name}
	}
	inst := &Instance{Name: name, App: app}
	*list = append(*list, inst)
	return inst, nil
}

// RemoveInstance deletes an instance and everything it owns.
func (d *Document) RemoveInstance(app, name string) bool {
	list, err := d.instanceList(app)
	if err != nil {
		return false
	}
	for i, inst := range *list {
		if inst.Name == name {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// AddInclude appends a template/include reference, keeping the first
// occurrence when the name was already selected.
func (inst *Instance) AddInclude(name string) {
	for _, existing := range inst.Includes {
		if existing == name {
			return
		}
	}
	inst.Includes = append(inst.Includes, name)
}

// RemoveInclude drops a template/include reference.
func (inst *Instance) RemoveInclude(name string) {
	for i, existing := range inst.Includes {
		if existing == name {
			inst.Includes = append(inst.Includes[:i], inst.Includes[i+1:]...)
			return
		}
	}
}

// Profile looks up a quality profile by name.
func (inst *Instance) Profile(name string) (*profile.Profile, bool) {
	for _, p := range inst.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddProfile attaches a quality profile. Profile names are unique within
// the instance.
func (inst *Instance) AddProfile(p *profile.Profile) error {
	if _, exists := inst.Profile(p.Name); exists {
		return &DuplicateNameError{Kind: "profile", Name: p.Name}
	}
	inst.Profiles = append(inst.Profiles, p)
	return nil
}

// RemoveProfile deletes a profile and prunes every selection override
// that referenced it, so no stale profile references survive.
func (inst *Instance) RemoveProfile(name string) bool {
	for i, p := range inst.Profiles {
		if p.Name != name {
			continue
		}
		inst.Profiles = append(inst.Profiles[:i], inst.Profiles[i+1:]...)
		for _, sel := range inst.Selections {
			delete(sel.Overrides, name)
		}
		return true
	}
	return false
}

// RenameProfile renames a profile and re-keys selection overrides to
// follow it.
func (inst *Instance) RenameProfile(oldName, newName string) error {
	p, ok := inst.Profile(oldName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := inst.Profile(newName); exists {
		return &DuplicateNameError{Kind: "profile", Name: newName}
	}
	p.Name = newName
	for _, sel := range inst.Selections {
		if score, ok := sel.Overrides[oldName]; ok {
			delete(sel.Overrides, oldName)
			sel.Overrides[newName] = score
		}
	}
	return nil
}

// Selection looks up a custom-format selection by trash_id.
func (inst *Instance) Selection(trashID string) (*Selection, bool) {
	for _, sel := range inst.Selections {
		if sel.TrashID == trashID {
			return sel, true
		}
	}
	return nil, false
}

// AddSelection selects a custom format. Selecting an already selected
// format returns the existing selection.
func (inst *Instance) AddSelection(trashID string) *Selection {
	if sel, ok := inst.Selection(trashID); ok {
		return sel
	}
	sel := &Selection{TrashID: trashID, Overrides: make(map[string]int)}
	inst.Selections = append(inst.Selections, sel)
	return sel
}

// RemoveSelection drops a custom-format selection.
func (inst *Instance) RemoveSelection(trashID string) bool {
	for i, sel := range inst.Selections {
		if sel.TrashID == trashID {
			inst.Selections = append(inst.Selections[:i], inst.Selections[i+1:]...)
			return true
		}
	}
	return false
}

// SetOverride records an explicit score for a selected format in one
// profile. The profile must exist in the instance.
func (inst *Instance) SetOverride(trashID, profileName string, score int) error {
	sel, ok := inst.Selection(trashID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSelection, trashID)
	}
	if _, ok := inst.Profile(profileName); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, profileName)
	}
	if sel.Overrides == nil {
		sel.Overrides = make(map[string]int)
	}
	sel.Overrides[profileName] = score
	return nil
}

// ClearOverride removes an explicit score, reverting the profile to
// inferred/default scoring.
func (inst *Instance) ClearOverride(trashID, profileName string) error {
	sel, ok := inst.Selection(trashID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSelection, trashID)
	}
	delete(sel.Overrides, profileName)
	return nil
}
