package catalog

// Application scopes recognized in the catalog caches.
const (
	AppRadarr    = "radarr"
	AppSonarr    = "sonarr"
	AppGuideOnly = "guide-only"
)

// Apps lists the scopes an instance can target.
var Apps = []string{AppRadarr, AppSonarr}

// Record is a single custom format as published by the TRaSH guides cache.
// Records are immutable once loaded.
type Record struct {
	TrashID     string         `json:"trash_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Scores      map[string]int `json:"trash_scores,omitempty"`
	App         string         `json:"app"`
}

// DefaultScore returns the record's "default" score entry if one exists.
func (r Record) DefaultScore() (int, bool) {
	score, ok := r.Scores["default"]
	return score, ok
}

// Template is a top-level recyclarr config template and the includes it
// pulls in, in declaration order.
type Template struct {
	Name        string   `json:"name"`
	File        string   `json:"file"`
	Description string   `json:"description,omitempty"`
	Includes    []string `json:"includes,omitempty"`
	App         string   `json:"-"`
}

// Include is a reusable config fragment referenced by templates or selected
// directly (quality-definitions, quality-profiles, custom-formats).
type Include struct {
	Name     string `json:"name"`
	File     string `json:"file"`
	Type     string `json:"type"`
	App      string `json:"-"`
	Category string `json:"-"`
}

// Metadata describes the provenance of a catalog cache.
type Metadata struct {
	GeneratedAt   string `json:"generated_at"`
	Source        string `json:"source"`
	Branch        string `json:"branch"`
	SchemaVersion string `json:"schema_version,omitempty"`
	TotalFormats  int    `json:"total_formats,omitempty"`
}

// Raw file layouts produced by the extractor scripts.

type formatsFile struct {
	Metadata      Metadata                `json:"metadata"`
	CustomFormats map[string]formatsGroup `json:"custom_formats"`
}

type formatsGroup struct {
	Count   int      `json:"count"`
	Formats []Record `json:"formats"`
}

type templatesFile struct {
	Metadata Metadata     `json:"metadata"`
	Radarr   appTemplates `json:"radarr"`
	Sonarr   appTemplates `json:"sonarr"`
}

type appTemplates struct {
	Templates []Template           `json:"templates"`
	Includes  map[string][]Include `json:"includes"`
}
