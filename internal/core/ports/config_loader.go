package ports

import "go.trai.ch/kiln/internal/core/domain"

// ProfileLoader defines the interface for loading build profiles.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ProfileLoader interface {
	// Load reads the profile at path. A missing file at the default location yields an empty profile.
	Load(path string) (*domain.Profile, error)
}
