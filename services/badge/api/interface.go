package api

import (
	"context"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// Engine defines the component able to produce a badge response for one inbound request
type Engine interface {
	// Process returns the response for the request, served from the shared cache
	// when a fresh entry exists and computed through the full pipeline otherwise
	Process(ctx context.Context, method string, requestURI string, pagePath string) (*common.CacheEntry, error)

	IsInterfaceNil() bool
}
