package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicon_Substitute(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		text    string
		want    string
	}{
		{
			name: "sub-brand wins over its parent prefix",
			entries: []Entry{
				{Source: "吉利", Target: "Geely"},
				{Source: "吉利银河", Target: "Geely Galaxy"},
			},
			text: "吉利银河 L7",
			want: "Geely Galaxy L7",
		},
		{
			name: "parent brand still matches on its own",
			entries: []Entry{
				{Source: "吉利", Target: "Geely"},
				{Source: "吉利银河", Target: "Geely Galaxy"},
			},
			text: "吉利 博越",
			want: "Geely 博越",
		},
		{
			name: "every occurrence is replaced",
			entries: []Entry{
				{Source: "版", Target: "Edition"},
			},
			text: "冠军版 旗舰版",
			want: "冠军Edition 旗舰Edition",
		},
		{
			name: "empty target strips the phrase",
			entries: []Entry{
				{Source: "款", Target: ""},
			},
			text: "2020款 325Li",
			want: "2020 325Li",
		},
		{
			name: "replacement keeps adjacent tokens apart",
			entries: []Entry{
				{Source: "运动", Target: "Sport"},
				{Source: "套装", Target: "Package"},
			},
			text: "M运动套装",
			want: "MSport Package",
		},
		{
			name:    "no match only normalises spaces",
			entries: []Entry{{Source: "宝马", Target: "BMW"}},
			text:    "  Tesla   Model 3  ",
			want:    "Tesla Model 3",
		},
		{
			name:    "empty text",
			entries: []Entry{{Source: "宝马", Target: "BMW"}},
			text:    "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New("test", tt.entries).Substitute(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLexicons_Substitute(t *testing.T) {
	brands, err := DefaultBrands()
	require.NoError(t, err)
	terms, err := DefaultTerms()
	require.NoError(t, err)

	tests := []struct {
		name        string
		title       string
		want        string
		wantTokens  []string
		notContains []string
	}{
		{
			name:        "bmw listing",
			title:       "宝马 3系 2020款 325Li M运动套装",
			want:        "BMW 3Series 2020 325Li MSport Package",
			wantTokens:  []string{"BMW", "Series", "Sport"},
			notContains: []string{"宝马", "系", "款", "运动"},
		},
		{
			name:        "geely galaxy sub-brand alone",
			title:       "银河星舰6 2026款 60km 远航版",
			want:        "Geely Galaxy Starship 6 2026 60km Voyager Edition",
			wantTokens:  []string{"Geely Galaxy", "Starship", "Voyager"},
			notContains: []string{"银河", "星舰", "远航"},
		},
		{
			name:        "sub-brand with parent prefix",
			title:       "吉利银河 L7 2023款 插电混动",
			want:        "Geely Galaxy L7 2023 PHEV",
			wantTokens:  []string{"Geely Galaxy", "PHEV"},
			notContains: []string{"Geely 银河"},
		},
		{
			name:       "residual characters survive for the provider",
			title:      "丰田 凯美瑞 2022款 2.5L 双擎豪华版",
			want:       "Toyota 凯美瑞 2022 2.5L Dual Engine Luxury Edition",
			wantTokens: []string{"Toyota", "凯美瑞"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := terms.Substitute(brands.Substitute(tt.title))
			assert.Equal(t, tt.want, got)
			for _, token := range tt.wantTokens {
				assert.Contains(t, got, token)
			}
			for _, source := range tt.notContains {
				assert.NotContains(t, got, source)
			}

			again := terms.Substitute(brands.Substitute(got))
			assert.Equal(t, got, again, "substitution must be a fixed point")
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpaces("  a    b  c "))
	assert.Equal(t, "", CollapseSpaces("   "))
	assert.Equal(t, "a\tb", CollapseSpaces("a\tb"))
}

func TestLexicon_Matches(t *testing.T) {
	lex := New("brands", []Entry{
		{Source: "吉利", Target: "Geely"},
		{Source: "吉利银河", Target: "Geely Galaxy"},
		{Source: "宝马", Target: "BMW"},
	})

	assert.Equal(t, []Entry{{Source: "吉利银河", Target: "Geely Galaxy"}}, lex.Matches("吉利银河 L7"))
	assert.Equal(t, []Entry{
		{Source: "吉利银河", Target: "Geely Galaxy"},
		{Source: "吉利", Target: "Geely"},
	}, lex.Matches("吉利银河 吉利 星瑞"))
	assert.Empty(t, lex.Matches("Tesla Model 3"))
}
