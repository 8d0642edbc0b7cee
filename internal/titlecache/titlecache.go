// Package titlecache remembers finished title translations across runs.
package titlecache

import (
	"context"
	"time"
)

//go:generate mockgen -source=titlecache.go -destination=../mocks/titlecache/mock_titlecache.go -package=mock_titlecache

// Entry is one cached translation keyed by the trimmed source title.
type Entry struct {
	SourceTitle     string    `db:"chinese_text"`
	TranslatedTitle string    `db:"english_text"`
	CreatedAt       time.Time `db:"created_at"`
}

// Repository stores entries in a backing store.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	// FindBySource returns nil when no entry exists.
	FindBySource(ctx context.Context, source string) (*Entry, error)
	// Upsert overwrites the translation of an existing entry and keeps its CreatedAt.
	Upsert(ctx context.Context, entry *Entry) error
	Close() error
}

// Cache is what the normalizer sees. It never fails: store errors are logged
// and reported as a miss or a skipped write.
type Cache interface {
	Get(ctx context.Context, source string) (string, bool)
	Set(ctx context.Context, source, translated string)
	Close() error
}
