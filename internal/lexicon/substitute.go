package lexicon

import (
	"strings"
)

// Substitute replaces every occurrence of each source phrase with its target
// followed by a space, longest phrases first, so that a sub-brand such as
// 吉利银河 is rewritten before its parent 吉利 can consume part of it.
// Runs of spaces are collapsed and the result is trimmed.
func (l *Lexicon) Substitute(text string) string {
	result := text
	for _, entry := range l.entries {
		if !strings.Contains(result, entry.Source) {
			continue
		}
		replacement := " "
		if entry.Target != "" {
			replacement = entry.Target + " "
		}
		result = strings.ReplaceAll(result, entry.Source, replacement)
	}
	return CollapseSpaces(result)
}

// CollapseSpaces squeezes runs of ASCII spaces into one and trims surrounding whitespace.
func CollapseSpaces(text string) string {
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	return strings.TrimSpace(text)
}

// Matches returns the entries Substitute would apply to text, in the order
// it applies them. A phrase consumed by a longer match is not reported.
func (l *Lexicon) Matches(text string) []Entry {
	var matches []Entry
	for _, entry := range l.entries {
		if !strings.Contains(text, entry.Source) {
			continue
		}
		matches = append(matches, entry)
		text = strings.ReplaceAll(text, entry.Source, " ")
	}
	return matches
}
