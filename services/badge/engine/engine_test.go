package engine

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	"github.com/iulianpascalau/views-badge/services/badge/query"
	"github.com/iulianpascalau/views-badge/services/badge/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEngineArgs() ArgsBadgeEngine {
	return ArgsBadgeEngine{
		Cache:        &testsCommon.CacheStub{},
		ReportClient: &testsCommon.ReportClientStub{},
		Tasks:        &testsCommon.TaskRunnerStub{},
		BadgeLabel:   "views",
		BadgeTTL:     45 * time.Minute,
	}
}

func TestNewBadgeEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil cache should error", func(t *testing.T) {
		args := createTestEngineArgs()
		args.Cache = nil

		eng, err := NewBadgeEngine(args)
		assert.Nil(t, eng)
		assert.True(t, eng.IsInterfaceNil())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil cache")
	})
	t.Run("nil report client should error", func(t *testing.T) {
		args := createTestEngineArgs()
		args.ReportClient = nil

		eng, err := NewBadgeEngine(args)
		assert.Nil(t, eng)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil report client")
	})
	t.Run("nil task runner should error", func(t *testing.T) {
		args := createTestEngineArgs()
		args.Tasks = nil

		eng, err := NewBadgeEngine(args)
		assert.Nil(t, eng)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil task runner")
	})
	t.Run("empty badge label should error", func(t *testing.T) {
		args := createTestEngineArgs()
		args.BadgeLabel = ""

		eng, err := NewBadgeEngine(args)
		assert.Nil(t, eng)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty badge label")
	})
	t.Run("should work", func(t *testing.T) {
		eng, err := NewBadgeEngine(createTestEngineArgs())
		require.NoError(t, err)
		assert.False(t, eng.IsInterfaceNil())
	})
}

func TestBadgeEngine_Process(t *testing.T) {
	t.Parallel()

	testRows := []common.ReportRow{
		{DimensionValues: []string{"/blog/post"}, MetricValues: []string{"42"}},
	}

	t.Run("cache hit returns the stored entry untouched, backend is not called", func(t *testing.T) {
		cached := &common.CacheEntry{
			Body:         "<svg>cached</svg>",
			ContentType:  "image/svg+xml",
			CacheControl: "public, max-age=2700",
			StoredAt:     time.Now().Unix(),
		}
		args := createTestEngineArgs()
		args.Cache = &testsCommon.CacheStub{
			GetHandler: func(ctx context.Context, key string) (*common.CacheEntry, bool, error) {
				assert.Equal(t, "GET /?page_path=post", key)
				return cached, true, nil
			},
		}
		args.ReportClient = &testsCommon.ReportClientStub{
			RunReportHandler: func(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
				require.Fail(t, "backend should not have been called")
				return nil, nil
			},
		}

		eng, _ := NewBadgeEngine(args)
		entry, err := eng.Process(context.Background(), http.MethodGet, "/?page_path=post", "post")

		require.NoError(t, err)
		assert.Same(t, cached, entry)
	})
	t.Run("non-GET should error before any backend work", func(t *testing.T) {
		args := createTestEngineArgs()
		args.ReportClient = &testsCommon.ReportClientStub{
			RunReportHandler: func(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
				require.Fail(t, "backend should not have been called")
				return nil, nil
			},
		}

		eng, _ := NewBadgeEngine(args)
		entry, err := eng.Process(context.Background(), http.MethodPost, "/?page_path=post", "post")

		assert.Nil(t, entry)
		assert.Equal(t, ErrMethodNotAllowed, err)
	})
	t.Run("missing page path should error before any backend work", func(t *testing.T) {
		eng, _ := NewBadgeEngine(createTestEngineArgs())
		entry, err := eng.Process(context.Background(), http.MethodGet, "/", "")

		assert.Nil(t, entry)
		assert.Equal(t, query.ErrEmptyPagePath, err)
	})
	t.Run("miss should run the pipeline and fill the cache asynchronously", func(t *testing.T) {
		putDone := make(chan struct{})
		var storedKey string
		var storedEntry *common.CacheEntry

		args := createTestEngineArgs()
		args.Cache = &testsCommon.CacheStub{
			PutHandler: func(ctx context.Context, key string, entry *common.CacheEntry) error {
				storedKey = key
				storedEntry = entry
				close(putDone)
				return nil
			},
		}
		args.ReportClient = &testsCommon.ReportClientStub{
			RunReportHandler: func(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
				return testRows, nil
			},
		}

		eng, _ := NewBadgeEngine(args)
		entry, err := eng.Process(context.Background(), http.MethodGet, "/?page_path=post", "post")

		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "image/svg+xml", entry.ContentType)
		assert.Equal(t, "public, max-age=2700", entry.CacheControl)
		assert.Contains(t, entry.Body, ">42</text>")
		assert.Contains(t, entry.Body, "<!-- /blog/post -->")

		select {
		case <-putDone:
		case <-time.After(time.Second):
			require.Fail(t, "cache fill was never executed")
		}
		assert.Equal(t, "GET /?page_path=post", storedKey)
		assert.Same(t, entry, storedEntry)
	})
	t.Run("cache lookup failure degrades to a miss", func(t *testing.T) {
		args := createTestEngineArgs()
		args.Cache = &testsCommon.CacheStub{
			GetHandler: func(ctx context.Context, key string) (*common.CacheEntry, bool, error) {
				return nil, false, errors.New("cache is down")
			},
		}
		args.ReportClient = &testsCommon.ReportClientStub{
			RunReportHandler: func(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
				return testRows, nil
			},
		}

		eng, _ := NewBadgeEngine(args)
		entry, err := eng.Process(context.Background(), http.MethodGet, "/?page_path=post", "post")

		require.NoError(t, err)
		require.NotNil(t, entry)
	})
	t.Run("backend failure is surfaced and nothing is cached", func(t *testing.T) {
		expectedErr := errors.New("upstream exploded")
		args := createTestEngineArgs()
		args.ReportClient = &testsCommon.ReportClientStub{
			RunReportHandler: func(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
				return nil, expectedErr
			},
		}
		args.Cache = &testsCommon.CacheStub{
			PutHandler: func(ctx context.Context, key string, entry *common.CacheEntry) error {
				require.Fail(t, "a failed render must never be cached")
				return nil
			},
		}

		eng, _ := NewBadgeEngine(args)
		entry, err := eng.Process(context.Background(), http.MethodGet, "/?page_path=post", "post")

		assert.Nil(t, entry)
		assert.Equal(t, expectedErr, err)
	})
	t.Run("empty report renders a zero badge", func(t *testing.T) {
		eng, _ := NewBadgeEngine(createTestEngineArgs())
		entry, err := eng.Process(context.Background(), http.MethodGet, "/?page_path=post", "post")

		require.NoError(t, err)
		assert.Contains(t, entry.Body, ">0</text>")
	})
}
