package storage

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"
)

const defaultListPageSize = 500

// PostgresStore keeps every entry in a single key/value table.
type PostgresStore struct {
	DB *sql.DB
	// PageSize bounds how many keys one List query reads.
	PageSize int
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db, PageSize: defaultListPageSize}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS content_entries (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return classify("postgres ensure schema", err, sql.ErrConnDone)
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO content_entries (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return classify("postgres set", err, sql.ErrConnDone)
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.DB.QueryRowContext(ctx, `
		SELECT value FROM content_entries WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("postgres get", err, sql.ErrConnDone)
	}
	return value, true, nil
}

// List reads keys in pages ordered by key. Each page's rows are closed before
// its keys are yielded, so no connection is held while the caller runs Get.
func (s *PostgresStore) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		pageSize := s.PageSize
		if pageSize <= 0 {
			pageSize = defaultListPageSize
		}
		pattern := escapeLike(prefix) + "%"
		after := ""

		for {
			keys, err := s.listPage(ctx, pattern, after, pageSize)
			if err != nil {
				yield("", err)
				return
			}
			for _, key := range keys {
				if !yield(key, nil) {
					return
				}
			}
			if len(keys) < pageSize {
				return
			}
			after = keys[len(keys)-1]
		}
	}
}

func (s *PostgresStore) listPage(ctx context.Context, pattern, after string, limit int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT key FROM content_entries
		WHERE key LIKE $1 ESCAPE '\' AND key > $2
		ORDER BY key
		LIMIT $3
	`, pattern, after, limit)
	if err != nil {
		return nil, classify("postgres list", err, sql.ErrConnDone)
	}
	defer rows.Close()

	keys := make([]string, 0, limit)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, classify("postgres list scan", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("postgres list", err, sql.ErrConnDone)
	}
	return keys, nil
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
