package ports

import "go.trai.ch/kiln/internal/core/domain"

// Recipe describes how to build and package one library version.
// Every hook receives the immutable configuration of the invocation.
//
//go:generate mockgen -source=recipe.go -destination=mocks/mock_recipe.go -package=mocks
type Recipe interface {
	Metadata() domain.Metadata
	OptionRules() []domain.OptionRule
	Requirements(cfg domain.Config) []domain.Requirement
	Source(cfg domain.Config) (domain.SourcePlan, error)

	// Validate rejects configurations the library cannot be built with.
	// It runs before any generator invocation.
	Validate(cfg domain.Config) error

	Definitions(cfg domain.Config) (domain.Definitions, error)
	BuildTarget(cfg domain.Config) string
	Package(cfg domain.Config) domain.PackagePlan

	// PackageInfo returns the consumption metadata; collected holds the library names found in the package.
	PackageInfo(cfg domain.Config, collected []string) domain.CppInfo
}

// RecipeRegistry resolves recipes by name.
type RecipeRegistry interface {
	Get(name string) (Recipe, error)
	List() []Recipe
}
