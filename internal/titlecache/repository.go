package titlecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS translation_cache (
	chinese_text TEXT PRIMARY KEY,
	english_text TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// MySQL cannot index an unbounded TEXT key.
const mysqlSchema = `CREATE TABLE IF NOT EXISTS translation_cache (
	chinese_text VARCHAR(512) NOT NULL PRIMARY KEY,
	english_text TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
) DEFAULT CHARSET=utf8mb4`

const postgresUpsert = `INSERT INTO translation_cache (chinese_text, english_text)
		VALUES (?, ?)
		ON CONFLICT (chinese_text) DO UPDATE SET english_text = EXCLUDED.english_text`

const mysqlUpsert = `INSERT INTO translation_cache (chinese_text, english_text)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE english_text = VALUES(english_text)`

// DBRepository implements Repository on PostgreSQL or MySQL, chosen by the
// driver name of db.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) isMySQL() bool {
	return r.db.DriverName() == "mysql"
}

func (r *DBRepository) EnsureSchema(ctx context.Context) error {
	schema := postgresSchema
	if r.isMySQL() {
		schema = mysqlSchema
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db.ExecContext(create translation_cache) > %w", err)
	}
	return nil
}

func (r *DBRepository) FindBySource(ctx context.Context, source string) (*Entry, error) {
	var entry Entry
	err := r.db.GetContext(ctx, &entry,
		r.db.Rebind("SELECT chinese_text, english_text, created_at FROM translation_cache WHERE chinese_text = ?"),
		source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(translation_cache) > %w", err)
	}
	return &entry, nil
}

func (r *DBRepository) Upsert(ctx context.Context, entry *Entry) error {
	query := postgresUpsert
	if r.isMySQL() {
		query = mysqlUpsert
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), entry.SourceTitle, entry.TranslatedTitle); err != nil {
		return fmt.Errorf("db.ExecContext(upsert translation_cache) > %w", err)
	}
	return nil
}

func (r *DBRepository) Close() error {
	return r.db.Close()
}
