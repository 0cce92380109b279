package factory

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/iulianpascalau/views-badge/commonGo"
	"github.com/iulianpascalau/views-badge/services/badge/analytics"
	"github.com/iulianpascalau/views-badge/services/badge/api"
	"github.com/iulianpascalau/views-badge/services/badge/auth"
	"github.com/iulianpascalau/views-badge/services/badge/cache"
	"github.com/iulianpascalau/views-badge/services/badge/config"
	"github.com/iulianpascalau/views-badge/services/badge/engine"
)

const (
	memoryBackend = "memory"
	sqliteBackend = "sqlite"
	redisBackend  = "redis"
)

type componentsHandler struct {
	badgeCache  engine.Cache
	reportCache engine.Cache
	tasks       *commonGo.TaskRunner
	engine      api.Engine
	server      Server
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	encodedCredentials string,
	propertyID string,
	cfg config.Config,
) (*componentsHandler, error) {
	badgeCache, err := newCacheStore(cfg, "badge", time.Duration(cfg.BadgeCacheTTLInSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	reportCache, err := newCacheStore(cfg, "report", time.Duration(cfg.ReportCacheTTLInSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	authenticator, err := auth.NewServiceAccountAuthenticator(encodedCredentials)
	if err != nil {
		return nil, err
	}

	client, err := analytics.NewHTTPReportClient(analytics.ArgsHTTPReportClient{
		BaseURL:       cfg.AnalyticsBaseURL,
		PropertyID:    propertyID,
		TokenProvider: authenticator,
		Timeout:       time.Duration(cfg.BackendTimeoutInSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	cachedClient, err := analytics.NewCachedReportClient(client, reportCache)
	if err != nil {
		return nil, err
	}

	tasks := commonGo.NewTaskRunner()

	eng, err := engine.NewBadgeEngine(engine.ArgsBadgeEngine{
		Cache:        badgeCache,
		ReportClient: cachedClient,
		Tasks:        tasks,
		BadgeLabel:   cfg.BadgeLabel,
		BadgeTTL:     time.Duration(cfg.BadgeCacheTTLInSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ListenAddress:  cfg.ListenAddress,
		Engine:         eng,
		GeneralHandler: api.CORSMiddleware,
	})
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		badgeCache:  badgeCache,
		reportCache: reportCache,
		tasks:       tasks,
		engine:      eng,
		server:      server,
	}, nil
}

func newCacheStore(cfg config.Config, name string, ttl time.Duration) (engine.Cache, error) {
	switch cfg.CacheBackend {
	case memoryBackend:
		return cache.NewMemoryCache(ttl), nil
	case sqliteBackend:
		return cache.NewSQLiteCache(filepath.Join(cfg.SQLiteDir, name+"_cache.db"), ttl)
	case redisBackend:
		return cache.NewRedisCache(cache.ArgsRedisCache{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: name + ":",
			TTL:       ttl,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.CacheBackend)
	}
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() api.Engine {
	return ch.engine
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.server.Start()
}

// Close closes the inner components, waiting for pending cache fills first
func (ch *componentsHandler) Close() {
	_ = ch.server.Close()
	ch.tasks.Wait()
	_ = ch.badgeCache.Close()
	_ = ch.reportCache.Close()
}
