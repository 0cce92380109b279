package testsCommon

import (
	"context"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// EngineStub -
type EngineStub struct {
	ProcessHandler func(ctx context.Context, method string, requestURI string, pagePath string) (*common.CacheEntry, error)
}

// Process -
func (stub *EngineStub) Process(ctx context.Context, method string, requestURI string, pagePath string) (*common.CacheEntry, error) {
	if stub.ProcessHandler != nil {
		return stub.ProcessHandler(ctx, method, requestURI, pagePath)
	}

	return &common.CacheEntry{}, nil
}

// IsInterfaceNil -
func (stub *EngineStub) IsInterfaceNil() bool {
	return stub == nil
}
