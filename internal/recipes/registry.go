// Package recipes holds the registry of the recipes kiln ships with.
package recipes

import (
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/recipes/jinja2cpp"
	"go.trai.ch/kiln/internal/recipes/quickfix"
	"go.trai.ch/zerr"
)

var _ ports.RecipeRegistry = (*Registry)(nil)

// Registry implements ports.RecipeRegistry.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]ports.Recipe
}

// NewRegistry creates a registry holding recipes.
func NewRegistry(recipes ...ports.Recipe) (*Registry, error) {
	r := &Registry{recipes: make(map[string]ports.Recipe, len(recipes))}
	for _, recipe := range recipes {
		if err := r.Register(recipe); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin returns a registry holding every recipe shipped with kiln.
func Builtin() (*Registry, error) {
	jinja, err := jinja2cpp.New()
	if err != nil {
		return nil, err
	}
	qf, err := quickfix.New()
	if err != nil {
		return nil, err
	}
	return NewRegistry(jinja, qf)
}

// Register adds recipe after validating its metadata.
func (r *Registry) Register(recipe ports.Recipe) error {
	meta := recipe.Metadata()
	if err := meta.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.recipes[meta.Name]; dup {
		return zerr.With(zerr.Wrap(domain.ErrRecipeAlreadyRegistered, "recipe registered twice"), "recipe", meta.Name)
	}
	r.recipes[meta.Name] = recipe
	return nil
}

// Get resolves name, which is either a bare name or a "name/version" reference
// that must match the registered version.
func (r *Registry) Get(name string) (ports.Recipe, error) {
	key, version, pinned := strings.Cut(strings.TrimSpace(name), "/")

	r.mu.RLock()
	recipe, ok := r.recipes[key]
	r.mu.RUnlock()

	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrRecipeNotFound, "unknown recipe"), "recipe", name)
	}
	if meta := recipe.Metadata(); pinned && meta.Version != version {
		err := zerr.Wrap(domain.ErrRecipeNotFound, "version is not provided by any recipe")
		return nil, zerr.With(zerr.With(err, "recipe", name), "available", meta.Ref().String())
	}
	return recipe, nil
}

// List returns every recipe sorted by name.
func (r *Registry) List() []ports.Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]ports.Recipe, 0, len(names))
	for _, name := range names {
		out = append(out, r.recipes[name])
	}
	return out
}
