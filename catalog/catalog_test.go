package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFormats = `{
  "metadata": {
    "generated_at": "2025-06-01T00:00:00Z",
    "source": "https://github.com/TRaSH-Guides/Guides",
    "branch": "master",
    "total_formats": 4
  },
  "custom_formats": {
    "radarr": {
      "count": 2,
      "formats": [
        {
          "name": "FR Audio",
          "trash_id": "abc123",
          "description": "French audio track",
          "trash_scores": {"default": 100, "fr": 150}
        },
        {"name": "DTS-X", "trash_id": "def456", "trash_scores": {"default": 0}}
      ]
    },
    "sonarr": {
      "count": 1,
      "formats": [
        {"name": "Anime Dual Audio", "trash_id": "ghi789", "trash_scores": {"anime": 90}}
      ]
    },
    "guide-only": {
      "count": 1,
      "formats": [{"name": "Guide Note", "trash_id": "jkl000"}]
    }
  }
}`

const testTemplates = `{
  "metadata": {
    "generated_at": "2025-06-01T00:00:00Z",
    "source": "https://github.com/recyclarr/config-templates",
    "branch": "master"
  },
  "radarr": {
    "templates": [
      {
        "name": "remux-web-2160p",
        "file": "remux-web-2160p.yml",
        "includes": ["radarr-quality-definition-movie", "radarr-custom-formats-remux-web-2160p"]
      },
      {"name": "cycle-a", "file": "cycle-a.yml", "includes": ["cycle-b"]},
      {"name": "cycle-b", "file": "cycle-b.yml", "includes": ["cycle-a"]},
      {"name": "broken", "file": "broken.yml", "includes": ["missing-include"]}
    ],
    "includes": {
      "quality-definitions": [
        {"name": "radarr-quality-definition-movie", "file": "movie.yml", "type": "quality-definition"}
      ],
      "custom-formats": [
        {"name": "radarr-custom-formats-remux-web-2160p", "file": "remux-web-2160p.yml", "type": "custom-format"}
      ]
    }
  },
  "sonarr": {"templates": [], "includes": {}}
}`

func writeCatalog(t *testing.T, formats, templates string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	formatsPath := filepath.Join(dir, "custom_formats.json")
	templatesPath := filepath.Join(dir, "templates.json")
	require.NoError(t, os.WriteFile(formatsPath, []byte(formats), 0o644))
	require.NoError(t, os.WriteFile(templatesPath, []byte(templates), 0o644))
	return formatsPath, templatesPath
}

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	formatsPath, templatesPath := writeCatalog(t, testFormats, testTemplates)
	store, err := Load(formatsPath, templatesPath)
	require.NoError(t, err)
	return store
}

func TestLoad(t *testing.T) {
	store := loadTestStore(t)

	rec, ok := store.Format("abc123")
	require.True(t, ok)
	assert.Equal(t, "FR Audio", rec.Name)
	assert.Equal(t, AppRadarr, rec.App)
	assert.Equal(t, 150, rec.Scores["fr"])

	assert.Equal(t, "DTS-X", store.FormatName("def456"))
	assert.Equal(t, "nope", store.FormatName("nope"))

	assert.Equal(t, 4, store.Metadata().TotalFormats)
}

func TestFormatsForIncludesGuideOnly(t *testing.T) {
	store := loadTestStore(t)

	radarr, err := store.FormatsFor(AppRadarr)
	require.NoError(t, err)
	names := make([]string, 0, len(radarr))
	for _, rec := range radarr {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"FR Audio", "DTS-X", "Guide Note"}, names)

	sonarr, err := store.FormatsFor(AppSonarr)
	require.NoError(t, err)
	assert.Len(t, sonarr, 2)

	_, err = store.FormatsFor("lidarr")
	assert.ErrorIs(t, err, ErrUnknownApp)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name      string
		formats   string
		templates string
	}{
		{
			name:      "malformed formats JSON",
			formats:   "{not json",
			templates: testTemplates,
		},
		{
			name: "duplicate trash_id",
			formats: `{"custom_formats": {"radarr": {"formats": [
				{"name": "A", "trash_id": "dup"},
				{"name": "B", "trash_id": "dup"}
			]}}}`,
			templates: testTemplates,
		},
		{
			name:      "missing trash_id",
			formats:   `{"custom_formats": {"radarr": {"formats": [{"name": "A"}]}}}`,
			templates: testTemplates,
		},
		{
			name:      "missing name",
			formats:   `{"custom_formats": {"radarr": {"formats": [{"trash_id": "x"}]}}}`,
			templates: testTemplates,
		},
		{
			name:      "schema version too new",
			formats:   `{"metadata": {"schema_version": "2.0.0"}, "custom_formats": {}}`,
			templates: testTemplates,
		},
		{
			name:    "duplicate template name",
			formats: testFormats,
			templates: `{"radarr": {"templates": [
				{"name": "dup", "file": "a.yml"},
				{"name": "dup", "file": "b.yml"}
			]}, "sonarr": {}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatsPath, templatesPath := writeCatalog(t, tt.formats, tt.templates)
			_, err := Load(formatsPath, templatesPath)
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.NotEmpty(t, loadErr.Source)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, templatesPath := writeCatalog(t, testFormats, testTemplates)
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), templatesPath)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestSchemaVersionSameMajorAccepted(t *testing.T) {
	formats := `{"metadata": {"schema_version": "1.3.0"}, "custom_formats": {}}`
	formatsPath, templatesPath := writeCatalog(t, formats, testTemplates)
	_, err := Load(formatsPath, templatesPath)
	assert.NoError(t, err)
}

func TestResolveIncludes(t *testing.T) {
	store := loadTestStore(t)

	chain, err := store.ResolveIncludes(AppRadarr, "remux-web-2160p")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"radarr-quality-definition-movie",
		"radarr-custom-formats-remux-web-2160p",
	}, chain)
}

func TestResolveIncludesCycle(t *testing.T) {
	store := loadTestStore(t)

	// A cycle terminates instead of recursing forever.
	chain, err := store.ResolveIncludes(AppRadarr, "cycle-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"cycle-b"}, chain)
}

func TestResolveIncludesUnknown(t *testing.T) {
	store := loadTestStore(t)

	_, err := store.ResolveIncludes(AppRadarr, "no-such-template")
	assert.ErrorIs(t, err, ErrUnknownReference)

	_, err = store.ResolveIncludes(AppRadarr, "broken")
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestHasReference(t *testing.T) {
	store := loadTestStore(t)

	assert.True(t, store.HasReference(AppRadarr, "remux-web-2160p"))
	assert.True(t, store.HasReference(AppRadarr, "radarr-quality-definition-movie"))
	assert.False(t, store.HasReference(AppRadarr, "nope"))
	assert.False(t, store.HasReference(AppSonarr, "remux-web-2160p"))
}
