package ports

import "go.trai.ch/kiln/internal/core/domain"

// Patcher defines the interface for modifying a source tree.
//
//go:generate mockgen -source=patcher.go -destination=mocks/mock_patcher.go -package=mocks
type Patcher interface {
	// Apply applies patches to the tree at root in order.
	// Either every patch is applied or the tree is left unchanged.
	Apply(root string, patches []domain.Patch) error
}
