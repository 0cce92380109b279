package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	"github.com/iulianpascalau/views-badge/services/badge/format"
	"github.com/iulianpascalau/views-badge/services/badge/query"
	"github.com/iulianpascalau/views-badge/services/badge/render"
	"github.com/iulianpascalau/views-badge/services/badge/report"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const svgContentType = "image/svg+xml"

var log = logger.GetOrCreate("engine")

// ErrMethodNotAllowed signals a non-GET inbound request
var ErrMethodNotAllowed = errors.New("method not allowed, only GET is accepted")

// ArgsBadgeEngine defines the badge engine arguments
type ArgsBadgeEngine struct {
	Cache        Cache
	ReportClient ReportClient
	Tasks        TaskRunner
	BadgeLabel   string
	BadgeTTL     time.Duration
}

// badgeEngine drives a request through the cache-aside pipeline: cache lookup,
// backend query, aggregation, rendering and the asynchronous cache fill
type badgeEngine struct {
	cache        Cache
	reportClient ReportClient
	tasks        TaskRunner
	badgeLabel   string
	badgeTTL     time.Duration
}

// NewBadgeEngine creates a new badge engine instance
func NewBadgeEngine(args ArgsBadgeEngine) (*badgeEngine, error) {
	if check.IfNil(args.Cache) {
		return nil, errors.New("nil cache")
	}
	if check.IfNil(args.ReportClient) {
		return nil, errors.New("nil report client")
	}
	if check.IfNil(args.Tasks) {
		return nil, errors.New("nil task runner")
	}
	if len(args.BadgeLabel) == 0 {
		return nil, errors.New("empty badge label")
	}

	return &badgeEngine{
		cache:        args.Cache,
		reportClient: args.ReportClient,
		tasks:        args.Tasks,
		badgeLabel:   args.BadgeLabel,
		badgeTTL:     args.BadgeTTL,
	}, nil
}

// Process serves one inbound request: a fresh cached response is returned as-is,
// otherwise the full pipeline runs and, on success only, the rendered response
// is handed to the task runner for the non-blocking cache fill
func (e *badgeEngine) Process(ctx context.Context, method string, requestURI string, pagePath string) (*common.CacheEntry, error) {
	cacheKey := method + " " + requestURI

	entry, found, err := e.cache.Get(ctx, cacheKey)
	if err != nil {
		// a broken cache degrades to a miss, it never fails the request
		log.Warn("badge cache lookup failed", "key", cacheKey, "error", err)
	}
	if found {
		log.Debug("badge cache hit", "key", cacheKey)
		return entry, nil
	}

	if method != http.MethodGet {
		return nil, ErrMethodNotAllowed
	}

	metricQuery, err := query.BuildViewsQuery(pagePath, time.Now())
	if err != nil {
		return nil, err
	}

	rows, err := e.reportClient.RunReport(ctx, metricQuery)
	if err != nil {
		return nil, err
	}

	aggregated := report.Aggregate(rows)
	badge := common.Badge{
		Label:         e.badgeLabel,
		ValueText:     format.Abbreviate(aggregated.TotalCount),
		MetadataLines: aggregated.DimensionValues,
	}

	entry = &common.CacheEntry{
		Body:         render.SVG(badge),
		ContentType:  svgContentType,
		CacheControl: fmt.Sprintf("public, max-age=%d", int(e.badgeTTL.Seconds())),
		StoredAt:     time.Now().Unix(),
	}

	log.Debug("badge rendered", "key", cacheKey, "views", aggregated.TotalCount, "matched pages", len(aggregated.DimensionValues))

	e.tasks.Go(func() {
		// detached from the request context on purpose, the write must outlive the response
		err := e.cache.Put(context.Background(), cacheKey, entry)
		if err != nil {
			log.Warn("failed to populate badge cache", "key", cacheKey, "error", err)
		}
	})

	return entry, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *badgeEngine) IsInterfaceNil() bool {
	return e == nil
}
