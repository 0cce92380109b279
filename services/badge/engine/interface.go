package engine

import (
	"context"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// Cache defines the shared response cache collaborator. Both stores used by
// this service (badge responses and upstream reports) satisfy this interface.
type Cache interface {
	Get(ctx context.Context, key string) (*common.CacheEntry, bool, error)
	Put(ctx context.Context, key string, entry *common.CacheEntry) error
	Close() error
	IsInterfaceNil() bool
}

// ReportClient defines the component able to run a report query against the
// analytics backend
type ReportClient interface {
	RunReport(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error)
	IsInterfaceNil() bool
}

// TaskRunner defines the detached-task abstraction: submitted tasks run in the
// background and are guaranteed to finish before the runner's owner shuts down
type TaskRunner interface {
	Go(task func())
	IsInterfaceNil() bool
}
