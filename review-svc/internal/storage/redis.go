package storage

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultScanCount = 100

type RedisStore struct {
	Client    *redis.Client
	ScanCount int64
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, ScanCount: defaultScanCount}
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return classify("redis set", s.Client.Set(ctx, key, value, 0).Err(), redis.ErrClosed)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("redis get", err, redis.ErrClosed)
	}
	return value, true, nil
}

// List walks SCAN MATCH lazily. SCAN may return a key more than once, so
// keys already yielded are skipped.
func (s *RedisStore) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		it := s.Client.Scan(ctx, 0, escapeGlob(prefix)+"*", s.ScanCount).Iterator()
		seen := make(map[string]struct{})
		for it.Next(ctx) {
			key := it.Val()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if !yield(key, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield("", classify("redis scan", err, redis.ErrClosed))
		}
	}
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
