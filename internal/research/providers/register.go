package providers

import (
	"fmt"

	"github.com/discokit/disco/internal/research"
)

// RegisterDefaults wires the three built-in adapters into a registry.
func RegisterDefaults(registry *research.Registry, cfg Config) error {
	adapters := []research.Adapter{
		NewDocs(cfg),
		NewWebSearch(cfg),
		NewLLM(cfg),
	}
	for _, a := range adapters {
		if err := registry.Register(a); err != nil {
			return fmt.Errorf("registering provider %s: %w", a.Name(), err)
		}
	}
	return nil
}
