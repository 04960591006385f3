package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Generator defines the interface of the downstream build generator.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Configure generates the build tree for req.
	Configure(ctx context.Context, req domain.GenerateRequest) error
	// Build compiles req.Target, or everything when it is empty.
	Build(ctx context.Context, req domain.GenerateRequest) error
	// Install installs the build outputs into req.PackageDir.
	Install(ctx context.Context, req domain.GenerateRequest) error
}
