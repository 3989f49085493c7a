// Package scores derives default custom-format scores for a quality
// profile from the profile's name. The TRaSH cache keys its score tables
// by category ("default", "fr", "sqp-1-1080p", ...); users tend to bake
// the category into their profile names ("FR-UHD", "French MULTi"), so a
// match there is a better default than the generic one.
package scores

import (
	"strings"

	"github.com/recyforge/recyforge/catalog"
)

// aliasTable maps spelled-out category forms to the short codes used as
// score keys. Earlier entries win when several forms appear.
var aliasTable = []struct {
	spelled string
	code    string
}{
	{"french", "fr"},
	{"francais", "fr"},
	{"german", "de"},
	{"dutch", "nl"},
	{"spanish", "es"},
	{"anime", "anime"},
}

// Infer returns the default score a custom format should carry in the
// named profile. Priority: the normalized profile name as an exact score
// key, then each name token as a key, then each alias substitution in
// table order, then the "default" entry. Pure: no state, no side effects.
func Infer(rec catalog.Record, profileName string) (int, bool) {
	if len(rec.Scores) == 0 {
		return 0, false
	}

	name := strings.ToLower(strings.TrimSpace(profileName))
	if score, ok := rec.Scores[name]; ok {
		return score, true
	}

	tokens := tokenize(name)
	for _, tok := range tokens {
		if score, ok := rec.Scores[tok]; ok {
			return score, true
		}
	}
	for _, alias := range aliasTable {
		for _, tok := range tokens {
			if tok != alias.spelled {
				continue
			}
			if score, ok := rec.Scores[alias.code]; ok {
				return score, true
			}
		}
	}

	if score, ok := rec.Scores["default"]; ok {
		return score, true
	}
	return 0, false
}

func tokenize(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
}
