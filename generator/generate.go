// Package generator assembles the editing document into the final
// recyclarr YAML tree and serializes it. Mapping key order is the order
// a human expects to read, custom-format entries carry comments naming
// each trash_id, and any unresolved reference or key conflict aborts the
// whole generation before a single byte is written.
package generator

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/recyforge/recyforge/catalog"
	"github.com/recyforge/recyforge/model"
	"github.com/recyforge/recyforge/scores"
)

// Generate builds the full output document as a yaml.v3 node tree.
// Instances appear in document order under their app scope key.
func Generate(doc *model.Document, store *catalog.Store) (*yaml.Node, error) {
	root := mapNode()
	for _, scope := range []struct {
		key       string
		instances []*model.Instance
	}{
		{"radarr", doc.Radarr},
		{"sonarr", doc.Sonarr},
	} {
		if len(scope.instances) == 0 {
			continue
		}
		section := mapNode()
		for _, inst := range scope.instances {
			node, err := generateInstance(inst, store)
			if err != nil {
				return nil, err
			}
			appendPair(section, inst.Name, node)
		}
		appendPair(root, scope.key, section)
	}
	return root, nil
}

func generateInstance(inst *model.Instance, store *catalog.Store) (*yaml.Node, error) {
	node := mapNode()

	appendPair(node, "base_url", strNode(inst.BaseURL))
	appendPair(node, "api_key", strNode(inst.APIKey))
	appendPair(node, "delete_old_custom_formats", boolNode(inst.DeleteOldCustomFormats))
	appendPair(node, "replace_existing_custom_formats", boolNode(inst.ReplaceExistingCustomFormats))

	if includes, err := includeList(inst, store); err != nil {
		return nil, err
	} else if includes != nil {
		appendPair(node, "include", includes)
	}

	if len(inst.Profiles) > 0 {
		appendPair(node, "quality_profiles", profileList(inst))
	}

	if formats, err := customFormatList(inst, store); err != nil {
		return nil, err
	} else if formats != nil {
		appendPair(node, "custom_formats", formats)
	}

	if err := mergeManualOverrides(node, inst); err != nil {
		return nil, err
	}

	return node, nil
}

// includeList renders the selected template references in user order,
// deduplicated by first occurrence.
func includeList(inst *model.Instance, store *catalog.Store) (*yaml.Node, error) {
	seen := make(map[string]bool)
	seq := seqNode()
	for _, name := range inst.Includes {
		if seen[name] {
			continue
		}
		seen[name] = true
		if !store.HasReference(inst.App, name) {
			return nil, &UnresolvedReferenceError{Kind: "template", Ref: name, Instance: inst.Name}
		}
		entry := mapNode()
		appendPair(entry, "template", strNode(name))
		seq.Content = append(seq.Content, entry)
	}
	if len(seq.Content) == 0 {
		return nil, nil
	}
	return seq, nil
}

func profileList(inst *model.Instance) *yaml.Node {
	seq := seqNode()
	for _, p := range inst.Profiles {
		entry := mapNode()
		appendPair(entry, "name", strNode(p.Name))

		reset := mapNode()
		appendPair(reset, "enabled", boolNode(p.ResetUnmatchedScores))
		appendPair(entry, "reset_unmatched_scores", reset)

		upgrade := mapNode()
		appendPair(upgrade, "allowed", boolNode(p.UpgradeAllowed))
		appendPair(upgrade, "until_quality", strNode(p.UpgradeUntil))
		appendPair(upgrade, "until_score", intNode(p.UntilScore))
		appendPair(entry, "upgrade", upgrade)

		appendPair(entry, "min_format_score", intNode(p.MinFormatScore))
		if p.QualitySort != "" {
			appendPair(entry, "quality_sort", strNode(p.QualitySort))
		}
		if p.ScoreSet != "" {
			appendPair(entry, "score_set", strNode(p.ScoreSet))
		}

		qualities := seqNode()
		for _, item := range p.Items() {
			if len(item.Qualities) == 0 {
				qualities.Content = append(qualities.Content, strNode(item.Name))
				continue
			}
			group := mapNode()
			appendPair(group, "name", strNode(item.Name))
			members := seqNode()
			for _, q := range item.Qualities {
				members.Content = append(members.Content, strNode(q))
			}
			appendPair(group, "qualities", members)
			qualities.Content = append(qualities.Content, group)
		}
		appendPair(entry, "qualities", qualities)

		seq.Content = append(seq.Content, entry)
	}
	return seq
}

type assignment struct {
	profile string
	score   int
}

type formatEntry struct {
	trashIDs    []string
	assignments []assignment
}

// customFormatList groups selections whose resolved profile->score sets
// are identical into single entries with combined trash_ids, in
// first-occurrence order. Each trash_id carries the format's display
// name as a comment.
func customFormatList(inst *model.Instance, store *catalog.Store) (*yaml.Node, error) {
	if len(inst.Selections) == 0 {
		return nil, nil
	}

	var order []string
	entries := make(map[string]*formatEntry)

	for _, sel := range inst.Selections {
		rec, ok := store.Format(sel.TrashID)
		if !ok {
			return nil, &UnresolvedReferenceError{Kind: "custom format", Ref: sel.TrashID, Instance: inst.Name}
		}

		assignments := resolveAssignments(inst, sel, rec)
		key := assignmentKey(assignments)
		entry, ok := entries[key]
		if !ok {
			entry = &formatEntry{assignments: assignments}
			entries[key] = entry
			order = append(order, key)
		}
		entry.trashIDs = append(entry.trashIDs, sel.TrashID)
	}

	seq := seqNode()
	for _, key := range order {
		entry := entries[key]

		node := mapNode()
		ids := seqNode()
		for _, id := range entry.trashIDs {
			idNode := strNode(id)
			idNode.LineComment = store.FormatName(id)
			ids.Content = append(ids.Content, idNode)
		}
		appendPair(node, "trash_ids", ids)

		if len(entry.assignments) > 0 {
			assign := seqNode()
			for _, a := range entry.assignments {
				target := mapNode()
				appendPair(target, "name", strNode(a.profile))
				appendPair(target, "score", intNode(a.score))
				assign.Content = append(assign.Content, target)
			}
			appendPair(node, "assign_scores_to", assign)
		}
		seq.Content = append(seq.Content, node)
	}
	return seq, nil
}

// resolveAssignments computes the profile->score pairs for one selection,
// in instance profile-list order: explicit override first, then inferred
// or catalog-default score, otherwise the profile is omitted.
func resolveAssignments(inst *model.Instance, sel *model.Selection, rec catalog.Record) []assignment {
	var out []assignment
	for _, p := range inst.Profiles {
		if score, ok := sel.Override(p.Name); ok {
			out = append(out, assignment{profile: p.Name, score: score})
			continue
		}
		if score, ok := scores.Infer(rec, p.Name); ok {
			out = append(out, assignment{profile: p.Name, score: score})
		}
	}
	return out
}

// assignmentKey is a canonical form of an assignment set: two selections
// merge iff their sets are equal regardless of order.
func assignmentKey(assignments []assignment) string {
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		parts = append(parts, fmt.Sprintf("%s\x00%d", a.profile, a.score))
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x1f")
}

// mergeManualOverrides parses the instance's free-form override block and
// appends its top-level keys after the generated ones. A collision with a
// generated key fails the generation.
func mergeManualOverrides(node *yaml.Node, inst *model.Instance) error {
	if strings.TrimSpace(inst.ManualOverrides) == "" {
		return nil
	}

	var parsed yaml.Node
	if err := yaml.Unmarshal([]byte(inst.ManualOverrides), &parsed); err != nil {
		return fmt.Errorf("manual overrides for instance %q are not valid YAML: %w", inst.Name, err)
	}
	if len(parsed.Content) == 0 {
		return nil
	}
	overrides := parsed.Content[0]
	if overrides.Kind != yaml.MappingNode {
		return fmt.Errorf("manual overrides for instance %q must be a YAML mapping", inst.Name)
	}

	for i := 0; i+1 < len(overrides.Content); i += 2 {
		key := overrides.Content[i]
		value := overrides.Content[i+1]
		if hasKey(node, key.Value) {
			return &ConflictError{Key: key.Value, Instance: inst.Name}
		}
		node.Content = append(node.Content, key, value)
	}
	return nil
}
