// ABOUTME: Assembles the static pet catalog: tools, resources, and prompts.
// ABOUTME: Built once at startup; the registry is read-only afterwards.

package tools

import (
	"fmt"
	"log/slog"

	"github.com/2389/pet-gateway/internal/catalog"
	"github.com/2389/pet-gateway/internal/store"
)

// CommonSpecies lists the species offered to clients alongside whatever
// already exists in the store.
var CommonSpecies = []string{"Dog", "Cat", "Bird", "Rabbit", "Hamster", "Guinea Pig", "Fish", "Reptile"}

// NewRegistry builds the full static catalog backed by the given store.
func NewRegistry(s store.Store, logger *slog.Logger) (*catalog.Registry, error) {
	reg := catalog.NewRegistry(logger)
	h := &handlers{store: s}

	for _, tool := range petTools(h) {
		if err := reg.RegisterTool(tool); err != nil {
			return nil, fmt.Errorf("registering tool: %w", err)
		}
	}
	for _, res := range petResources() {
		if err := reg.RegisterResource(res); err != nil {
			return nil, fmt.Errorf("registering resource: %w", err)
		}
	}
	for _, prompt := range petPrompts() {
		if err := reg.RegisterPrompt(prompt); err != nil {
			return nil, fmt.Errorf("registering prompt: %w", err)
		}
	}

	return reg, nil
}
