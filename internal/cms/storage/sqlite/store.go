package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	cmsstorage "github.com/solvefurniture/storefront/internal/cms/storage"
	"github.com/solvefurniture/storefront/internal/cms/storage/sqlite/migrations"
	"github.com/solvefurniture/storefront/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for cached content responses.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a response cache at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetResponse loads a cached response by key.
func (s *Store) GetResponse(ctx context.Context, key string) (cmsstorage.Response, bool, error) {
	if s == nil || s.sqlDB == nil {
		return cmsstorage.Response{}, false, fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return cmsstorage.Response{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT cache_key, resource, body, fetched_at FROM cms_responses WHERE cache_key = ?`,
		key,
	)
	var resp cmsstorage.Response
	var fetchedAt int64
	if err := row.Scan(&resp.Key, &resp.Resource, &resp.Body, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cmsstorage.Response{}, false, nil
		}
		return cmsstorage.Response{}, false, fmt.Errorf("get response: %w", err)
	}
	resp.FetchedAt = unixMillisToTime(fetchedAt)
	return resp, true, nil
}

// PutResponse upserts a cached response by key.
func (s *Store) PutResponse(ctx context.Context, resp cmsstorage.Response) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	resp.Key = strings.TrimSpace(resp.Key)
	if resp.Key == "" {
		return fmt.Errorf("cache key is required")
	}
	resp.Resource = strings.TrimSpace(resp.Resource)
	if resp.Resource == "" {
		return fmt.Errorf("resource is required")
	}
	if len(resp.Body) == 0 {
		return fmt.Errorf("response body is required")
	}
	if resp.FetchedAt.IsZero() {
		resp.FetchedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO cms_responses (cache_key, resource, body, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    resource = excluded.resource,
		    body = excluded.body,
		    fetched_at = excluded.fetched_at`,
		resp.Key,
		resp.Resource,
		resp.Body,
		timeToUnixMillis(resp.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("put response: %w", err)
	}
	return nil
}

// DeleteResponse removes a cached response by key.
func (s *Store) DeleteResponse(ctx context.Context, key string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cms_responses WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}

// ListResponses returns cached response metadata ordered by key.
func (s *Store) ListResponses(ctx context.Context) ([]cmsstorage.Response, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT cache_key, resource, fetched_at FROM cms_responses ORDER BY cache_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]cmsstorage.Response, 0)
	for rows.Next() {
		var resp cmsstorage.Response
		var fetchedAt int64
		if err := rows.Scan(&resp.Key, &resp.Resource, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		resp.FetchedAt = unixMillisToTime(fetchedAt)
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return out, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ cmsstorage.Store = (*Store)(nil)
