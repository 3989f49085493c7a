package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/recyforge/recyforge/catalog"
	"github.com/recyforge/recyforge/model"
	"github.com/recyforge/recyforge/profile"
)

const testFormats = `{
  "metadata": {"generated_at": "2025-06-01T00:00:00Z", "total_formats": 5},
  "custom_formats": {
    "radarr": {
      "count": 5,
      "formats": [
        {"name": "FR Audio", "trash_id": "abc123", "trash_scores": {"default": 100, "fr": 150}},
        {"name": "DTS-X", "trash_id": "def456", "trash_scores": {"default": 0}},
        {"name": "Twin One", "trash_id": "twin1", "trash_scores": {"default": 100}},
        {"name": "Twin Two", "trash_id": "twin2", "trash_scores": {"default": 100}},
        {"name": "Scoreless", "trash_id": "bare01"}
      ]
    },
    "sonarr": {"count": 0, "formats": []}
  }
}`

const testTemplates = `{
  "metadata": {"generated_at": "2025-06-01T00:00:00Z"},
  "radarr": {
    "templates": [
      {"name": "remux-web-2160p", "file": "remux-web-2160p.yml",
       "includes": ["radarr-quality-definition-movie"]}
    ],
    "includes": {
      "quality-definitions": [
        {"name": "radarr-quality-definition-movie", "file": "movie.yml", "type": "quality-definition"}
      ]
    }
  },
  "sonarr": {"templates": [], "includes": {}}
}`

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	dir := t.TempDir()
	formatsPath := filepath.Join(dir, "custom_formats.json")
	templatesPath := filepath.Join(dir, "templates.json")
	require.NoError(t, os.WriteFile(formatsPath, []byte(testFormats), 0o644))
	require.NoError(t, os.WriteFile(templatesPath, []byte(testTemplates), 0o644))

	store, err := catalog.Load(formatsPath, templatesPath)
	require.NoError(t, err)
	return store
}

func newUHDInstance(t *testing.T) (*model.Document, *model.Instance) {
	t.Helper()
	doc := model.NewDocument()
	inst, err := doc.AddInstance("radarr", "fr-films")
	require.NoError(t, err)
	inst.BaseURL = "http://localhost:7878"
	inst.APIKey = "secret"

	p := profile.New("FR-UHD")
	a, err := p.AddLeaf("Bluray-2160p", -1)
	require.NoError(t, err)
	b, err := p.AddLeaf("WEBDL-2160p", -1)
	require.NoError(t, err)
	_, err = p.Group([]profile.NodeID{a, b}, "Bluray|WEB 2160p")
	require.NoError(t, err)
	require.NoError(t, inst.AddProfile(p))

	return doc, inst
}

// decode renders the tree to YAML and parses it back as generic data.
func decode(t *testing.T, root *yaml.Node) map[string]any {
	t.Helper()
	data, err := Serialize(root)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func instanceMap(t *testing.T, tree map[string]any, app, name string) map[string]any {
	t.Helper()
	section, ok := tree[app].(map[string]any)
	require.True(t, ok, "missing %s section", app)
	inst, ok := section[name].(map[string]any)
	require.True(t, ok, "missing instance %s", name)
	return inst
}

func TestGenerateQualityProfileScenario(t *testing.T) {
	doc, _ := newUHDInstance(t)
	store := testStore(t)

	root, err := Generate(doc, store)
	require.NoError(t, err)

	inst := instanceMap(t, decode(t, root), "radarr", "fr-films")
	assert.Equal(t, "http://localhost:7878", inst["base_url"])
	assert.Equal(t, "secret", inst["api_key"])
	assert.Equal(t, false, inst["delete_old_custom_formats"])

	profiles := inst["quality_profiles"].([]any)
	require.Len(t, profiles, 1)
	qp := profiles[0].(map[string]any)
	assert.Equal(t, "FR-UHD", qp["name"])

	qualities := qp["qualities"].([]any)
	require.Len(t, qualities, 1)
	group := qualities[0].(map[string]any)
	assert.Equal(t, "Bluray|WEB 2160p", group["name"])
	assert.Equal(t, []any{"Bluray-2160p", "WEBDL-2160p"}, group["qualities"])
}

func TestGenerateScoreInference(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	// No override: the fr alias score wins over the default.
	inst.AddSelection("abc123")

	root, err := Generate(doc, store)
	require.NoError(t, err)

	instTree := instanceMap(t, decode(t, root), "radarr", "fr-films")
	formats := instTree["custom_formats"].([]any)
	require.Len(t, formats, 1)

	entry := formats[0].(map[string]any)
	assert.Equal(t, []any{"abc123"}, entry["trash_ids"])
	assign := entry["assign_scores_to"].([]any)
	require.Len(t, assign, 1)
	target := assign[0].(map[string]any)
	assert.Equal(t, "FR-UHD", target["name"])
	assert.Equal(t, 150, target["score"])
}

func TestGenerateGroupsEqualAssignmentSets(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	// twin1 and twin2 resolve identically (default 100) and must merge;
	// abc123 resolves to 150 and stays separate; bare01 resolves to
	// nothing and gets an entry without assign_scores_to.
	inst.AddSelection("twin1")
	inst.AddSelection("abc123")
	inst.AddSelection("twin2")
	inst.AddSelection("bare01")

	root, err := Generate(doc, store)
	require.NoError(t, err)

	instTree := instanceMap(t, decode(t, root), "radarr", "fr-films")
	formats := instTree["custom_formats"].([]any)
	require.Len(t, formats, 3)

	first := formats[0].(map[string]any)
	assert.Equal(t, []any{"twin1", "twin2"}, first["trash_ids"])

	second := formats[1].(map[string]any)
	assert.Equal(t, []any{"abc123"}, second["trash_ids"])

	third := formats[2].(map[string]any)
	assert.Equal(t, []any{"bare01"}, third["trash_ids"])
	_, hasAssign := third["assign_scores_to"]
	assert.False(t, hasAssign, "scoreless entry must omit assign_scores_to")
}

func TestGenerateOverrideSplitsGroups(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	inst.AddSelection("twin1")
	inst.AddSelection("twin2")
	require.NoError(t, inst.SetOverride("twin2", "FR-UHD", 42))

	root, err := Generate(doc, store)
	require.NoError(t, err)

	instTree := instanceMap(t, decode(t, root), "radarr", "fr-films")
	formats := instTree["custom_formats"].([]any)
	assert.Len(t, formats, 2, "an override must break set equality")
}

func TestGenerateAssignOrderFollowsProfiles(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	second := profile.New("Backup")
	require.NoError(t, inst.AddProfile(second))
	inst.AddSelection("abc123")
	require.NoError(t, inst.SetOverride("abc123", "Backup", 10))

	root, err := Generate(doc, store)
	require.NoError(t, err)

	instTree := instanceMap(t, decode(t, root), "radarr", "fr-films")
	formats := instTree["custom_formats"].([]any)
	entry := formats[0].(map[string]any)
	assign := entry["assign_scores_to"].([]any)
	require.Len(t, assign, 2)

	// Instance profile order, not alphabetical or score order.
	assert.Equal(t, "FR-UHD", assign[0].(map[string]any)["name"])
	assert.Equal(t, "Backup", assign[1].(map[string]any)["name"])
}

func TestGenerateIncludes(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	inst.AddInclude("remux-web-2160p")
	inst.AddInclude("radarr-quality-definition-movie")

	root, err := Generate(doc, store)
	require.NoError(t, err)

	instTree := instanceMap(t, decode(t, root), "radarr", "fr-films")
	includes := instTree["include"].([]any)
	require.Len(t, includes, 2)
	assert.Equal(t, map[string]any{"template": "remux-web-2160p"}, includes[0])
	assert.Equal(t, map[string]any{"template": "radarr-quality-definition-movie"}, includes[1])
}

func TestGenerateUnresolvedReferences(t *testing.T) {
	store := testStore(t)

	t.Run("unknown template", func(t *testing.T) {
		doc, inst := newUHDInstance(t)
		inst.AddInclude("no-such-template")

		_, err := Generate(doc, store)
		var refErr *UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "template", refErr.Kind)
		assert.Equal(t, "no-such-template", refErr.Ref)
	})

	t.Run("unknown custom format", func(t *testing.T) {
		doc, inst := newUHDInstance(t)
		inst.AddSelection("ffffff")

		_, err := Generate(doc, store)
		var refErr *UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "custom format", refErr.Kind)
		assert.Equal(t, "fr-films", refErr.Instance)
	})
}

func TestGenerateManualOverrides(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	inst.ManualOverrides = "media_naming:\n  folder: plex\nquality_definition:\n  type: movie\n"

	root, err := Generate(doc, store)
	require.NoError(t, err)

	instTree := instanceMap(t, decode(t, root), "radarr", "fr-films")
	assert.Equal(t, map[string]any{"folder": "plex"}, instTree["media_naming"])
	assert.Equal(t, map[string]any{"type": "movie"}, instTree["quality_definition"])
}

func TestGenerateManualOverrideConflict(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	// base_url is always generated; redefining it manually must fail
	// and abort the whole generation.
	inst.ManualOverrides = "base_url: http://elsewhere:7878\n"

	root, err := Generate(doc, store)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "base_url", conflict.Key)
	assert.Equal(t, "fr-films", conflict.Instance)
	assert.Nil(t, root, "no partial tree on conflict")
}

func TestGenerateManualOverrideNotMapping(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	inst.ManualOverrides = "- just\n- a\n- list\n"

	_, err := Generate(doc, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a YAML mapping")
}

func TestGenerateEmptyScopesOmitted(t *testing.T) {
	doc, _ := newUHDInstance(t)
	store := testStore(t)

	root, err := Generate(doc, store)
	require.NoError(t, err)

	tree := decode(t, root)
	_, hasSonarr := tree["sonarr"]
	assert.False(t, hasSonarr, "empty sonarr scope must not appear")
}

func TestGenerateCommentsNameFormats(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	inst.AddSelection("abc123")

	root, err := Generate(doc, store)
	require.NoError(t, err)
	data, err := Serialize(root)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# FR Audio")
	assert.Contains(t, text, "recyclarr.dev")
}

func TestSerializeRoundTrip(t *testing.T) {
	doc, inst := newUHDInstance(t)
	store := testStore(t)

	inst.AddInclude("remux-web-2160p")
	inst.AddSelection("abc123")
	inst.AddSelection("twin1")
	inst.ManualOverrides = "media_naming:\n  folder: plex\n"

	root, err := Generate(doc, store)
	require.NoError(t, err)

	// The generated tree and the parsed serialization must be the same
	// structured data, comments aside.
	var direct any
	require.NoError(t, root.Decode(&direct))

	data, err := Serialize(root)
	require.NoError(t, err)
	var parsed any
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	assert.Equal(t, direct, parsed)
}

func TestWriteFile(t *testing.T) {
	doc, _ := newUHDInstance(t)
	store := testStore(t)

	root, err := Generate(doc, store)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, WriteFile(path, root))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#"), "header comment missing")

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(data, &tree))
	assert.Contains(t, tree, "radarr")
}
