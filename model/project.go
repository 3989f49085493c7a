package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recyforge/recyforge/profile"
)

// Project file layout. Profile trees are stored in their flat
// serialization shape and rebuilt through the builder on load, so a
// hand-edited file cannot introduce nested groups or duplicate names.

type projectFile struct {
	Radarr []projectInstance `yaml:"radarr,omitempty"`
	Sonarr []projectInstance `yaml:"sonarr,omitempty"`
}

type projectInstance struct {
	Name                         string             `yaml:"name"`
	BaseURL                      string             `yaml:"base_url,omitempty"`
	APIKey                       string             `yaml:"api_key,omitempty"`
	DeleteOldCustomFormats       bool               `yaml:"delete_old_custom_formats"`
	ReplaceExistingCustomFormats bool               `yaml:"replace_existing_custom_formats"`
	Includes                     []string           `yaml:"includes,omitempty"`
	Profiles                     []projectProfile   `yaml:"quality_profiles,omitempty"`
	CustomFormats                []projectSelection `yaml:"custom_formats,omitempty"`
	ManualOverrides              string             `yaml:"manual_overrides,omitempty"`
}

type projectProfile struct {
	Name                 string         `yaml:"name"`
	UpgradeAllowed       bool           `yaml:"upgrade_allowed"`
	UpgradeUntil         string         `yaml:"upgrade_until,omitempty"`
	UntilScore           int            `yaml:"until_score,omitempty"`
	MinFormatScore       int            `yaml:"min_format_score,omitempty"`
	QualitySort          string         `yaml:"quality_sort,omitempty"`
	ScoreSet             string         `yaml:"score_set,omitempty"`
	ResetUnmatchedScores bool           `yaml:"reset_unmatched_scores"`
	Qualities            []projectItem  `yaml:"qualities"`
}

type projectItem struct {
	Name      string   `yaml:"name"`
	Qualities []string `yaml:"qualities,omitempty"`
}

type projectSelection struct {
	TrashID string         `yaml:"trash_id"`
	Scores  map[string]int `yaml:"scores,omitempty"`
}

// LoadProject reads a project file and rebuilds the document through the
// normal mutation paths, enforcing every model invariant.
func LoadProject(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	doc := NewDocument()
	for app, instances := range map[string][]projectInstance{"radarr": pf.Radarr, "sonarr": pf.Sonarr} {
		for _, pi := range instances {
			if err := loadInstance(doc, app, pi); err != nil {
				return nil, fmt.Errorf("project file %s: %w", path, err)
			}
		}
	}
	return doc, nil
}

func loadInstance(doc *Document, app string, pi projectInstance) error {
	inst, err := doc.AddInstance(app, pi.Name)
	if err != nil {
		return err
	}
	inst.BaseURL = pi.BaseURL
	inst.APIKey = pi.APIKey
	inst.DeleteOldCustomFormats = pi.DeleteOldCustomFormats
	inst.ReplaceExistingCustomFormats = pi.ReplaceExistingCustomFormats
	inst.ManualOverrides = pi.ManualOverrides

	for _, include := range pi.Includes {
		inst.AddInclude(include)
	}

	for _, pp := range pi.Profiles {
		items := make([]profile.Item, 0, len(pp.Qualities))
		for _, item := range pp.Qualities {
			items = append(items, profile.Item{Name: item.Name, Qualities: item.Qualities})
		}
		p, err := profile.FromItems(pp.Name, items)
		if err != nil {
			return fmt.Errorf("profile %q in instance %q: %w", pp.Name, pi.Name, err)
		}
		p.UpgradeAllowed = pp.UpgradeAllowed
		p.UpgradeUntil = pp.UpgradeUntil
		p.UntilScore = pp.UntilScore
		p.MinFormatScore = pp.MinFormatScore
		p.QualitySort = pp.QualitySort
		p.ScoreSet = pp.ScoreSet
		p.ResetUnmatchedScores = pp.ResetUnmatchedScores
		if err := inst.AddProfile(p); err != nil {
			return fmt.Errorf("instance %q: %w", pi.Name, err)
		}
	}

	for _, ps := range pi.CustomFormats {
		inst.AddSelection(ps.TrashID)
		for profileName, score := range ps.Scores {
			if err := inst.SetOverride(ps.TrashID, profileName, score); err != nil {
				return fmt.Errorf("custom format %s in instance %q: %w", ps.TrashID, pi.Name, err)
			}
		}
	}
	return nil
}

// SaveProject writes the document back out as a project file.
func SaveProject(path string, doc *Document) error {
	pf := projectFile{
		Radarr: saveInstances(doc.Radarr),
		Sonarr: saveInstances(doc.Sonarr),
	}

	data, err := yaml.Marshal(&pf)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

func saveInstances(instances []*Instance) []projectInstance {
	out := make([]projectInstance, 0, len(instances))
	for _, inst := range instances {
		pi := projectInstance{
			Name:                         inst.Name,
			BaseURL:                      inst.BaseURL,
			APIKey:                       inst.APIKey,
			DeleteOldCustomFormats:       inst.DeleteOldCustomFormats,
			ReplaceExistingCustomFormats: inst.ReplaceExistingCustomFormats,
			Includes:                     inst.Includes,
			ManualOverrides:              inst.ManualOverrides,
		}
		for _, p := range inst.Profiles {
			pp := projectProfile{
				Name:                 p.Name,
				UpgradeAllowed:       p.UpgradeAllowed,
				UpgradeUntil:         p.UpgradeUntil,
				UntilScore:           p.UntilScore,
				MinFormatScore:       p.MinFormatScore,
				QualitySort:          p.QualitySort,
				ScoreSet:             p.ScoreSet,
				ResetUnmatchedScores: p.ResetUnmatchedScores,
			}
			for _, item := range p.Items() {
				pp.Qualities = append(pp.Qualities, projectItem{Name: item.Name, Qualities: item.Qualities})
			}
			pi.Profiles = append(pi.Profiles, pp)
		}
		for _, sel := range inst.Selections {
			ps := projectSelection{TrashID: sel.TrashID}
			if len(sel.Overrides) > 0 {
				ps.Scores = sel.Overrides
			}
			pi.CustomFormats = append(pi.CustomFormats, ps)
		}
		out = append(out, pi)
	}
	return out
}
