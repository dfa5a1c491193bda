package repository

import (
	"context"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// PairIndexRepository defines the interface for reading the pairing index
// the upstream stage produces: which current capture corresponds to which
// archived capture.
type PairIndexRepository interface {
	// ListPairs returns every current/archived pairing to compare.
	ListPairs(ctx context.Context) ([]entity.PairIndexEntry, error)
}
