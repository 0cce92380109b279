package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteCache is the sqlite implementation of the response cache, useful when
// cached badges should survive a process restart
type sqliteCache struct {
	db         *sql.DB
	ttl        time.Duration
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewSQLiteCache creates the database and schema and starts the expiry cleaner
func NewSQLiteCache(dbPath string, ttl time.Duration) (*sqliteCache, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create the cache DB directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &sqliteCache{
		db:         db,
		ttl:        ttl,
		cancelFunc: cancel,
	}

	c.startExpiryCleaner(ctx)

	return c, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key           TEXT    NOT NULL PRIMARY KEY,
		body          TEXT    NOT NULL,
		content_type  TEXT    NOT NULL,
		cache_control TEXT    NOT NULL DEFAULT '',
		stored_at     INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_entries_stored_at ON cache_entries(stored_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Get returns the stored entry for the key, expired entries count as misses
func (c *sqliteCache) Get(ctx context.Context, key string) (*common.CacheEntry, bool, error) {
	entry := &common.CacheEntry{}
	err := c.db.QueryRowContext(ctx, `
		SELECT body, content_type, cache_control, stored_at
		FROM cache_entries
		WHERE key = ?
	`, key).Scan(&entry.Body, &entry.ContentType, &entry.CacheControl, &entry.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache query failed: %w", err)
	}

	if time.Now().Unix()-entry.StoredAt >= int64(c.ttl.Seconds()) {
		return nil, false, nil
	}

	return entry, true, nil
}

// Put upserts the entry, a fresher write always wins
func (c *sqliteCache) Put(ctx context.Context, key string, entry *common.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, body, content_type, cache_control, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body=excluded.body,
			content_type=excluded.content_type,
			cache_control=excluded.cache_control,
			stored_at=excluded.stored_at
	`, key, entry.Body, entry.ContentType, entry.CacheControl, entry.StoredAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}

func (c *sqliteCache) cleanExpiredEntries(ctx context.Context) error {
	cutoff := time.Now().Unix() - int64(c.ttl.Seconds())
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE stored_at < ?", cutoff)

	return err
}

func (c *sqliteCache) startExpiryCleaner(ctx context.Context) {
	c.wg.Add(1)

	// max(ttl/10, 60s)
	interval := c.ttl / 10
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer c.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running cache expiry cleanup")

				err := c.cleanExpiredEntries(ctx)
				if err != nil {
					log.Warn("failed to cleanup expired cache entries", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (c *sqliteCache) Close() error {
	c.cancelFunc()
	c.wg.Wait()

	return c.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *sqliteCache) IsInterfaceNil() bool {
	return c == nil
}
