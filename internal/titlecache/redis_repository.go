package titlecache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldTranslated = "english_text"
	fieldCreatedAt  = "created_at"
)

// RedisRepository keeps each entry in a hash at prefix+source.
type RedisRepository struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisRepository) key(source string) string {
	return r.prefix + source
}

// EnsureSchema only checks the connection; hashes need no schema.
func (r *RedisRepository) EnsureSchema(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis.Ping > %w", err)
	}
	return nil
}

func (r *RedisRepository) FindBySource(ctx context.Context, source string) (*Entry, error) {
	values, err := r.client.HGetAll(ctx, r.key(source)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.HGetAll(%s) > %w", r.key(source), err)
	}
	translated, ok := values[fieldTranslated]
	if !ok {
		return nil, nil
	}

	entry := &Entry{
		SourceTitle:     source,
		TranslatedTitle: translated,
	}
	if createdAt, err := time.Parse(time.RFC3339Nano, values[fieldCreatedAt]); err == nil {
		entry.CreatedAt = createdAt
	}
	return entry, nil
}

func (r *RedisRepository) Upsert(ctx context.Context, entry *Entry) error {
	key := r.key(entry.SourceTitle)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldTranslated, entry.TranslatedTitle)
		pipe.HSetNX(ctx, key, fieldCreatedAt, r.now().UTC().Format(time.RFC3339Nano))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis.TxPipelined(%s) > %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
