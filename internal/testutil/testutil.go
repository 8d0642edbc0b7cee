// Package testutil provides shared test helpers for config files, environment
// and lexicon fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tiksanauto/cartitle/internal/lexicon"
)

// EnvVars are the environment variables the config loader binds.
var EnvVars = []string{"CARTITLE_CACHE_URL", "DATABASE_URL", "CARTITLE_PROVIDER_URL", "PORT"}

// ClearEnv blanks EnvVars for the duration of the test.
func ClearEnv(t *testing.T) {
	t.Helper()
	for _, key := range EnvVars {
		t.Setenv(key, "")
	}
}

// WriteConfig writes content to dir/config.yml and returns its path.
func WriteConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteLexicon writes entries as a lexicon file dir/name.yml and returns its path.
func WriteLexicon(t *testing.T, dir, name string, entries []lexicon.Entry) string {
	t.Helper()
	data, err := yaml.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(dir, name+".yml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// DefaultLexicons returns the embedded brand and term lexicons.
func DefaultLexicons(t *testing.T) (brands *lexicon.Lexicon, terms *lexicon.Lexicon) {
	t.Helper()
	brands, err := lexicon.DefaultBrands()
	require.NoError(t, err)
	terms, err = lexicon.DefaultTerms()
	require.NoError(t, err)
	return brands, terms
}
