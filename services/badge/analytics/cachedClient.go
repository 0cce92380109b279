package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
)

const reportKeyPrefix = "report:"

type cachedReportClient struct {
	inner ReportClient
	cache ReportCache
}

// NewCachedReportClient decorates a report client with a short-lived cache so
// repeated queries inside the revalidation window hit the backend only once.
// There is no coalescing of concurrent misses, the last write wins.
func NewCachedReportClient(inner ReportClient, cache ReportCache) (*cachedReportClient, error) {
	if check.IfNil(inner) {
		return nil, errors.New("nil report client")
	}
	if check.IfNil(cache) {
		return nil, errors.New("nil report cache")
	}

	return &cachedReportClient{
		inner: inner,
		cache: cache,
	}, nil
}

// RunReport serves rows from the cache when a fresh entry exists, otherwise
// delegates to the wrapped client and stores the result
func (c *cachedReportClient) RunReport(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
	key := buildReportKey(q)

	entry, found, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn("report cache lookup failed", "key", key, "error", err)
	}
	if found {
		var rows []common.ReportRow
		err = json.Unmarshal([]byte(entry.Body), &rows)
		if err == nil {
			return rows, nil
		}

		log.Warn("discarding undecodable report cache entry", "key", key, "error", err)
	}

	rows, err := c.inner.RunReport(ctx, q)
	if err != nil {
		return nil, err
	}

	buff, err := json.Marshal(rows)
	if err != nil {
		return rows, nil
	}

	err = c.cache.Put(ctx, key, &common.CacheEntry{
		Body:        string(buff),
		ContentType: "application/json",
		StoredAt:    time.Now().Unix(),
	})
	if err != nil {
		log.Warn("failed to store report cache entry", "key", key, "error", err)
	}

	return rows, nil
}

func buildReportKey(q common.MetricQuery) string {
	buff, _ := json.Marshal(&q)
	hash := sha256.Sum256(buff)

	return fmt.Sprintf("%s%x", reportKeyPrefix, hash[:16])
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *cachedReportClient) IsInterfaceNil() bool {
	return c == nil
}
