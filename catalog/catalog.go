package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blang/semver"
	"golang.org/x/sync/errgroup"
)

// SupportedSchemaMajor is the newest catalog schema major version this
// build understands. Caches without a schema_version predate the field
// and are accepted as-is.
const SupportedSchemaMajor = 1

// Store holds the parsed catalog caches, indexed for lookup. It is
// populated once by Load and never mutated afterwards.
type Store struct {
	meta Metadata

	formats    map[string]Record // by trash_id
	formatsFor map[string][]Record

	templates     map[string]map[string]Template // app -> name
	templateOrder map[string][]string
	includes      map[string]map[string]Include // app -> name, flattened across categories
	includeOrder  map[string][]string
}

// Load parses the two catalog caches into an indexed, read-only store.
// The sources are parsed concurrently; indexing happens once both are in.
func Load(formatsPath, templatesPath string) (*Store, error) {
	var (
		ff formatsFile
		tf templatesFile
	)

	var g errgroup.Group
	g.Go(func() error {
		return readJSON(formatsPath, &ff)
	})
	g.Go(func() error {
		return readJSON(templatesPath, &tf)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkSchema(formatsPath, ff.Metadata); err != nil {
		return nil, err
	}
	if err := checkSchema(templatesPath, tf.Metadata); err != nil {
		return nil, err
	}

	s := &Store{
		meta:          ff.Metadata,
		formats:       make(map[string]Record),
		formatsFor:    make(map[string][]Record),
		templates:     make(map[string]map[string]Template),
		templateOrder: make(map[string][]string),
		includes:      make(map[string]map[string]Include),
		includeOrder:  make(map[string][]string),
	}

	if err := s.indexFormats(formatsPath, ff); err != nil {
		return nil, err
	}
	for app, data := range map[string]appTemplates{AppRadarr: tf.Radarr, AppSonarr: tf.Sonarr} {
		if err := s.indexTemplates(templatesPath, app, data); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Source: path, Reason: "cannot read file", Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &LoadError{Source: path, Reason: "malformed JSON", Err: err}
	}
	return nil
}

func checkSchema(source string, meta Metadata) error {
	if meta.SchemaVersion == "" {
		return nil
	}
	v, err := semver.Parse(meta.SchemaVersion)
	if err != nil {
		return &LoadError{Source: source, Reason: fmt.Sprintf("invalid schema_version %q", meta.SchemaVersion), Err: err}
	}
	if v.Major > SupportedSchemaMajor {
		return &LoadError{
			Source: source,
			Reason: fmt.Sprintf("schema version %s is newer than supported major %d", meta.SchemaVersion, SupportedSchemaMajor),
		}
	}
	return nil
}

func (s *Store) indexFormats(source string, ff formatsFile) error {
	for _, app := range []string{AppRadarr, AppSonarr, AppGuideOnly} {
		group, ok := ff.CustomFormats[app]
		if !ok {
			continue
		}
		for _, rec := range group.Formats {
			if rec.TrashID == "" {
				return &LoadError{Source: source, Reason: fmt.Sprintf("custom format %q has no trash_id", rec.Name)}
			}
			if rec.Name == "" {
				return &LoadError{Source: source, Reason: fmt.Sprintf("custom format %s has no name", rec.TrashID)}
			}
			if prev, exists := s.formats[rec.TrashID]; exists {
				return &LoadError{
					Source: source,
					Reason: fmt.Sprintf("duplicate trash_id %s (%q and %q)", rec.TrashID, prev.Name, rec.Name),
				}
			}
			if rec.App == "" {
				rec.App = app
			}
			s.formats[rec.TrashID] = rec
			s.formatsFor[app] = append(s.formatsFor[app], rec)
		}
	}
	return nil
}

func (s *Store) indexTemplates(source, app string, data appTemplates) error {
	s.templates[app] = make(map[string]Template)
	s.includes[app] = make(map[string]Include)

	for _, tpl := range data.Templates {
		if tpl.Name == "" {
			return &LoadError{Source: source, Reason: fmt.Sprintf("%s template with empty name", app)}
		}
		if _, exists := s.templates[app][tpl.Name]; exists {
			return &LoadError{Source: source, Reason: fmt.Sprintf("duplicate %s template %q", app, tpl.Name)}
		}
		tpl.App = app
		s.templates[app][tpl.Name] = tpl
		s.templateOrder[app] = append(s.templateOrder[app], tpl.Name)
	}

	for category, items := range data.Includes {
		for _, inc := range items {
			if inc.Name == "" {
				return &LoadError{Source: source, Reason: fmt.Sprintf("%s include with empty name in %s", app, category)}
			}
			if _, exists := s.includes[app][inc.Name]; exists {
				return &LoadError{Source: source, Reason: fmt.Sprintf("duplicate %s include %q", app, inc.Name)}
			}
			inc.App = app
			inc.Category = category
			s.includes[app][inc.Name] = inc
			s.includeOrder[app] = append(s.includeOrder[app], inc.Name)
		}
	}
	return nil
}

// Metadata returns the custom-formats cache metadata.
func (s *Store) Metadata() Metadata {
	return s.meta
}

// Format looks up a custom format record by trash_id.
func (s *Store) Format(trashID string) (Record, bool) {
	rec, ok := s.formats[trashID]
	return rec, ok
}

// FormatName returns the display name for a trash_id, falling back to the
// id itself when the record is unknown.
func (s *Store) FormatName(trashID string) string {
	if rec, ok := s.formats[trashID]; ok {
		return rec.Name
	}
	return trashID
}

// FormatsFor returns the custom formats applicable to an app scope.
// Scope-agnostic (guide-only) records are included for every app.
func (s *Store) FormatsFor(app string) ([]Record, error) {
	if app != AppRadarr && app != AppSonarr {
		return nil, fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	out := make([]Record, 0, len(s.formatsFor[app])+len(s.formatsFor[AppGuideOnly]))
	out = append(out, s.formatsFor[app]...)
	out = append(out, s.formatsFor[AppGuideOnly]...)
	return out, nil
}

// Template looks up a template by app and name.
func (s *Store) Template(app, name string) (Template, bool) {
	tpl, ok := s.templates[app][name]
	return tpl, ok
}

// Templates returns all templates for an app in catalog order.
func (s *Store) Templates(app string) []Template {
	out := make([]Template, 0, len(s.templateOrder[app]))
	for _, name := range s.templateOrder[app] {
		out = append(out, s.templates[app][name])
	}
	return out
}

// Include looks up an include fragment by app and name.
func (s *Store) Include(app, name string) (Include, bool) {
	inc, ok := s.includes[app][name]
	return inc, ok
}

// Includes returns all include fragments for an app in catalog order.
func (s *Store) Includes(app string) []Include {
	out := make([]Include, 0, len(s.includeOrder[app]))
	for _, name := range s.includeOrder[app] {
		out = append(out, s.includes[app][name])
	}
	return out
}

// HasReference reports whether a name resolves to either a template or an
// include fragment for the given app.
func (s *Store) HasReference(app, name string) bool {
	if _, ok := s.templates[app][name]; ok {
		return true
	}
	_, ok := s.includes[app][name]
	return ok
}

// ResolveIncludes walks the include chain rooted at the named template and
// returns every referenced template/include name in breadth-first,
// first-occurrence order, excluding the root itself. A reference that
// resolves to nothing fails with ErrUnknownReference.
func (s *Store) ResolveIncludes(app, name string) ([]string, error) {
	root, ok := s.templates[app][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s template %q", ErrUnknownReference, app, name)
	}

	var chain []string
	seen := map[string]bool{name: true}
	queue := append([]string(nil), root.Includes...)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true

		if tpl, ok := s.templates[app][next]; ok {
			chain = append(chain, next)
			queue = append(queue, tpl.Includes...)
			continue
		}
		if _, ok := s.includes[app][next]; ok {
			// Include fragments are terminal.
			chain = append(chain, next)
			continue
		}
		return nil, fmt.Errorf("%w: %s include %q (via template %q)", ErrUnknownReference, app, next, name)
	}

	return chain, nil
}
