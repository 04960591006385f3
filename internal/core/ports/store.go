package ports

import "go.trai.ch/kiln/internal/core/domain"

// PackageStore defines the interface for storing and retrieving package information.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type PackageStore interface {
	// Get retrieves the package info for a given reference.
	// Returns nil, nil if not found.
	Get(root string, ref domain.Ref) (*domain.PackageInfo, error)

	// Put stores the package info.
	Put(root string, info domain.PackageInfo) error
}
