package correction

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_Correct(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "galaxy star becomes starship",
			text: "Geely Galaxy Star 6 2026 60km sailing version",
			want: "Geely Galaxy Starship 6 2026 60km Voyager Edition",
		},
		{
			name: "starship is left alone",
			text: "Geely Galaxy Starship 7 EM-i",
			want: "Geely Galaxy Starship 7 EM-i",
		},
		{
			name: "whole word only",
			text: "sailingstone Sailingboat",
			want: "sailingstone Sailingboat",
		},
		{
			name: "standalone sailing",
			text: "Sailing 2024",
			want: "Voyager 2024",
		},
		{
			name: "voyager is not extended",
			text: "Voyager Edition",
			want: "Voyager Edition",
		},
		{
			name: "version phrases",
			text: "BYD Han EV champion version 610KM four-wheel drive Flagship version",
			want: "BYD Han EV Champion Edition 610KM AWD Flagship Edition",
		},
		{
			name: "range and drivetrain",
			text: "Tesla Model 3 long battery life all-wheel drive version",
			want: "Tesla Model 3 long Range AWD version",
		},
		{
			name: "pure electric",
			text: "AITO M9 Pure electric flagship",
			want: "AITO M9 EV flagship",
		},
		{
			name: "duplicated edition is collapsed",
			text: "Xiaomi SU7 Standard Edition Edition",
			want: "Xiaomi SU7 Standard Edition",
		},
		{
			name: "spaces are normalised",
			text: "  BMW   3Series  ",
			want: "BMW 3Series",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "han character continues the word",
			text: "Galaxy Star舰",
			want: "Galaxy Star舰",
		},
		{
			name: "accented letter continues the word",
			text: "Galaxy Starå",
			want: "Galaxy Starå",
		},
		{
			name: "han character before the match",
			text: "银河Galaxy Star",
			want: "银河Galaxy Star",
		},
		{
			name: "space separates leftover han text",
			text: "Galaxy Star 舰 2025",
			want: "Galaxy Starship 舰 2025",
		},
		{
			name: "adjacent matches share a separator",
			text: "sailing sailing",
			want: "Voyager Voyager",
		},
		{
			name: "skipped match does not hide a later one",
			text: "sailing远航 sailing version",
			want: "sailing远航 Voyager Edition",
		},
	}

	corrector := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, corrector.Correct(tt.text))
		})
	}
}

func TestCorrector_RuleOrder(t *testing.T) {
	corrector := New([]Rule{
		{Pattern: regexp.MustCompile(`\bsports version\b`), Replacement: "Sport Edition"},
		{Pattern: regexp.MustCompile(`\bSport\b`), Replacement: "Sports"},
	}, nil)

	assert.Equal(t, "Sports Edition", corrector.Correct("sports version"))
}

func TestCorrector_ReplacementIsLiteral(t *testing.T) {
	corrector := New([]Rule{
		{Pattern: regexp.MustCompile(`\bprice\b`), Replacement: "$1"},
	}, nil)

	assert.Equal(t, "$1 list", corrector.Correct("price list"))
}

func TestDefault_RulesAreAnchored(t *testing.T) {
	for _, rule := range Default().Rules() {
		pattern := rule.Pattern.String()
		assert.Regexp(t, `^\\b.*\\b$`, pattern)
	}
}
