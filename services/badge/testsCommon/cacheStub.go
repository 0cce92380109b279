package testsCommon

import (
	"context"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// CacheStub -
type CacheStub struct {
	GetHandler   func(ctx context.Context, key string) (*common.CacheEntry, bool, error)
	PutHandler   func(ctx context.Context, key string, entry *common.CacheEntry) error
	CloseHandler func() error
}

// Get -
func (stub *CacheStub) Get(ctx context.Context, key string) (*common.CacheEntry, bool, error) {
	if stub.GetHandler != nil {
		return stub.GetHandler(ctx, key)
	}

	return nil, false, nil
}

// Put -
func (stub *CacheStub) Put(ctx context.Context, key string, entry *common.CacheEntry) error {
	if stub.PutHandler != nil {
		return stub.PutHandler(ctx, key, entry)
	}

	return nil
}

// Close -
func (stub *CacheStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *CacheStub) IsInterfaceNil() bool {
	return stub == nil
}
