package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	store := loadTestStore(t)

	tests := []struct {
		name       string
		app        string
		expression string
		want       []string
	}{
		{
			name:       "score threshold",
			app:        AppRadarr,
			expression: `hasScore("fr") and score("fr") > 100`,
			want:       []string{"FR Audio"},
		},
		{
			name:       "name contains",
			app:        AppRadarr,
			expression: `Name contains "DTS"`,
			want:       []string{"DTS-X"},
		},
		{
			name:       "matches nothing",
			app:        AppRadarr,
			expression: `score("default") > 9000`,
			want:       nil,
		},
		{
			name:       "match all",
			app:        AppSonarr,
			expression: `true`,
			want:       []string{"Anime Dual Audio", "Guide Note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.Search(tt.app, tt.expression)
			require.NoError(t, err)

			var names []string
			for _, rec := range records {
				names = append(names, rec.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSearchErrors(t *testing.T) {
	store := loadTestStore(t)

	tests := []struct {
		name       string
		app        string
		expression string
	}{
		{"empty expression", AppRadarr, ""},
		{"bad syntax", AppRadarr, `Name contains "unclosed`},
		{"non-boolean result", AppRadarr, `42`},
		{"unknown app", "lidarr", `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Search(tt.app, tt.expression)
			assert.Error(t, err)
		})
	}
}
