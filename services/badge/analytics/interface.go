package analytics

import (
	"context"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// TokenProvider defines the external collaborator able to produce bearer tokens
// for the analytics backend
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
	IsInterfaceNil() bool
}

// ReportClient defines the operations of a component able to run a report query
// against the analytics backend
type ReportClient interface {
	RunReport(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error)
	IsInterfaceNil() bool
}

// ReportCache defines the key-value store used to bound backend load for the
// revalidation window of an upstream call
type ReportCache interface {
	Get(ctx context.Context, key string) (*common.CacheEntry, bool, error)
	Put(ctx context.Context, key string, entry *common.CacheEntry) error
	IsInterfaceNil() bool
}
