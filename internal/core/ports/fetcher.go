package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// SourceFetcher defines the interface for acquiring upstream sources.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// Fetch retrieves src into dest, replacing anything already there.
	// Archives are downloaded into downloads first and reused when their checksum matches.
	Fetch(ctx context.Context, src domain.Source, dest, downloads string) (domain.FetchResult, error)
}
