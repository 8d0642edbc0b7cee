// Package lexicon holds the brand and term dictionaries used to rewrite listing
// titles before machine translation.
package lexicon

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed data/brands.yml
var brandsYAML []byte

//go:embed data/terms.yml
var termsYAML []byte

// Entry maps a source-language phrase to its target-language replacement.
// An empty Target strips the phrase.
type Entry struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Lexicon is an immutable list of entries ordered longest source first.
// Entries with the same source length keep their insertion order.
type Lexicon struct {
	name    string
	entries []Entry
	index   map[string]int
}

// New builds a Lexicon. A repeated source keeps the position of its first
// occurrence and the target of its last one. Entries with an empty source are dropped.
func New(name string, entries []Entry) *Lexicon {
	index := make(map[string]int, len(entries))
	deduped := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Source == "" {
			continue
		}
		if i, ok := index[entry.Source]; ok {
			deduped[i].Target = entry.Target
			continue
		}
		index[entry.Source] = len(deduped)
		deduped = append(deduped, entry)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return utf8.RuneCountInString(deduped[i].Source) > utf8.RuneCountInString(deduped[j].Source)
	})
	for i, entry := range deduped {
		index[entry.Source] = i
	}

	return &Lexicon{
		name:    name,
		entries: deduped,
		index:   index,
	}
}

// Parse reads a YAML sequence of {source, target} mappings.
func Parse(name string, data []byte) (*Lexicon, error) {
	var entries []Entry
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("yaml.Decode(%s) > %w", name, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("lexicon %s has no entries", name)
	}
	return New(name, entries), nil
}

// LoadFile reads a lexicon from a YAML file.
func LoadFile(name, path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}
	return Parse(name, data)
}

// DefaultBrands returns the embedded brand lexicon.
func DefaultBrands() (*Lexicon, error) {
	return Parse("brands", brandsYAML)
}

// DefaultTerms returns the embedded trim/feature term lexicon.
func DefaultTerms() (*Lexicon, error) {
	return Parse("terms", termsYAML)
}

// Load returns the lexicon at path, or the embedded one when path is empty.
func Load(name, path string, fallback func() (*Lexicon, error)) (*Lexicon, error) {
	if path == "" {
		return fallback()
	}
	return LoadFile(name, path)
}

func (l *Lexicon) Name() string {
	return l.name
}

func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in substitution order.
func (l *Lexicon) Entries() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Lookup returns the target for an exact source phrase.
func (l *Lexicon) Lookup(source string) (string, bool) {
	i, ok := l.index[source]
	if !ok {
		return "", false
	}
	return l.entries[i].Target, true
}
