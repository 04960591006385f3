package recipes

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the recipe registry Graft node.
const NodeID graft.ID = "recipes.registry"

func init() {
	graft.Register(graft.Node[ports.RecipeRegistry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RecipeRegistry, error) {
			registry, err := Builtin()
			if err != nil {
				return nil, err
			}
			return registry, nil
		},
	})
}
