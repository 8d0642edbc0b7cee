// Package correction repairs systematic machine-translation mistakes in car titles.
package correction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tiksanauto/cartitle/internal/lexicon"
)

// Rule rewrites every match of Pattern. Patterns carry their own \b anchors;
// matches touching a letter or digit of any script on either side are skipped.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Literal is a plain substring replacement applied after all rules.
type Literal struct {
	From string
	To   string
}

// Corrector applies rules, then literals, in order. It is safe for concurrent use.
type Corrector struct {
	rules    []Rule
	literals []Literal
}

func New(rules []Rule, literals []Literal) *Corrector {
	return &Corrector{
		rules:    rules,
		literals: literals,
	}
}

// Correct never fails; text without known mistakes only has its spaces normalised.
func (c *Corrector) Correct(text string) string {
	result := text
	for _, rule := range c.rules {
		result = rule.apply(result)
	}
	for _, literal := range c.literals {
		result = strings.ReplaceAll(result, literal.From, literal.To)
	}
	return lexicon.CollapseSpaces(result)
}

// apply replaces matches that sit on word boundaries. RE2's \b only knows ASCII
// word characters, so "Star舰" would otherwise match "Star".
func (r Rule) apply(text string) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(text) {
		loc := r.Pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && onWordBoundary(text, start, end) {
			b.WriteString(text[last:start])
			b.WriteString(r.Replacement)
			last, pos = end, end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + max(size, 1)
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func onWordBoundary(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:end])
		if isWordRune(before) && isWordRune(first) {
			return false
		}
	}
	if end < len(text) {
		lastRune, _ := utf8.DecodeLastRuneInString(text[start:end])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(lastRune) && isWordRune(after) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (c *Corrector) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

func rule(pattern, replacement string) Rule {
	return Rule{
		Pattern:     regexp.MustCompile(pattern),
		Replacement: replacement,
	}
}

var defaultRules = []Rule{
	// Geely Galaxy model names. \b already refuses to split "Starship".
	rule(`\bGalaxy Star\b`, "Galaxy Starship"),
	rule(`\bStar Ship\b`, "Starship"),
	rule(`\bStar 6\b`, "Starship 6"),
	rule(`\bStar 7\b`, "Starship 7"),
	rule(`\bStar 8\b`, "Starship 8"),

	// 远航 is a trim, not "sailing"
	rule(`\bsailing version\b`, "Voyager Edition"),
	rule(`\bSailing version\b`, "Voyager Edition"),
	rule(`\bsailing\b`, "Voyager"),
	rule(`\bSailing\b`, "Voyager"),

	rule(`\bchampion version\b`, "Champion Edition"),
	rule(`\bChampion version\b`, "Champion Edition"),
	rule(`\bluxury version\b`, "Luxury Edition"),
	rule(`\bLuxury version\b`, "Luxury Edition"),
	rule(`\bsports version\b`, "Sport Edition"),
	rule(`\bSports version\b`, "Sport Edition"),
	rule(`\bflagship version\b`, "Flagship Edition"),
	rule(`\bFlagship version\b`, "Flagship Edition"),
	rule(`\bcomfort version\b`, "Comfort Edition"),
	rule(`\bComfort version\b`, "Comfort Edition"),
	rule(`\bpremium version\b`, "Premium Edition"),
	rule(`\bPremium version\b`, "Premium Edition"),
	rule(`\bstandard version\b`, "Standard Edition"),
	rule(`\bStandard version\b`, "Standard Edition"),

	rule(`\bvoyage\b`, "Voyager"),
	rule(`\bVoyage\b`, "Voyager"),
	rule(`\bcruising\b`, "Range"),
	rule(`\bCruising\b`, "Range"),
	rule(`\bendurance\b`, "Range"),
	rule(`\bEndurance\b`, "Range"),
	rule(`\bbattery life\b`, "Range"),
	rule(`\bfour-wheel drive\b`, "AWD"),
	rule(`\bFour-wheel drive\b`, "AWD"),
	rule(`\ball-wheel drive\b`, "AWD"),
	rule(`\bAll-wheel drive\b`, "AWD"),
	rule(`\btwo-wheel drive\b`, "2WD"),
	rule(`\bTwo-wheel drive\b`, "2WD"),
	rule(`\bpure electric\b`, "EV"),
	rule(`\bPure electric\b`, "EV"),
	rule(`\ball electric\b`, "EV"),
	rule(`\bAll electric\b`, "EV"),
}

var defaultLiterals = []Literal{
	{From: " Edition Edition", To: " Edition"},
}

// Default returns the corrector for Google zh-CN to en output.
func Default() *Corrector {
	return New(defaultRules, defaultLiterals)
}
