package repository

import (
	"context"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// RequestSetRepository defines the contract for loading the request records
// of one page capture. Implementations materialize the full set; the core
// never consumes partial or streamed sets.
type RequestSetRepository interface {
	// LoadCurrent returns the live-side request set for a page.
	LoadCurrent(ctx context.Context, key entity.PageKey) (entity.RequestSet, error)
	// LoadArchived returns the archived-side request set for a page capture.
	LoadArchived(ctx context.Context, key entity.PageKey, captureDate string) (entity.RequestSet, error)
}
