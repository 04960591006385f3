package ports

import "go.trai.ch/kiln/internal/core/domain"

// Hasher defines the interface for computing hashes.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputePackageID derives the package id from everything that affects the binary output.
	ComputePackageID(cfg domain.Config) string

	// ComputeTreeHash computes a checksum over every file below root.
	ComputeTreeHash(root string) (string, error)
}
