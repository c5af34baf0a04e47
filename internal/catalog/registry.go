// ABOUTME: Static registry mapping names to tool/resource/prompt descriptors.
// ABOUTME: Built once at process start and read-only thereafter.

package catalog

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrDuplicateName indicates a descriptor with the same name or URI
// was already registered.
var ErrDuplicateName = errors.New("duplicate catalog entry")

// Registry holds the static catalog of tools, resources, and prompts.
//
// The registry must be fully populated before the server starts handling
// requests; after that it is read-only, so lookups need no locking.
// Listing methods return entries in registration order, which keeps the
// tools/list and resources/list output stable across calls.
type Registry struct {
	tools       map[string]*Tool
	toolOrder   []string
	resources   map[string]*Resource
	resOrder    []string
	prompts     map[string]*Prompt
	promptOrder []string
	logger      *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:     make(map[string]*Tool),
		resources: make(map[string]*Resource),
		prompts:   make(map[string]*Prompt),
		logger:    logger,
	}
}

// RegisterTool adds a tool descriptor.
// Returns ErrDuplicateName if the name is taken.
func (r *Registry) RegisterTool(t *Tool) error {
	if t.Name == "" {
		return errors.New("tool name is required")
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("%w: tool %q", ErrDuplicateName, t.Name)
	}
	r.tools[t.Name] = t
	r.toolOrder = append(r.toolOrder, t.Name)
	r.logger.Debug("registered tool", "name", t.Name)
	return nil
}

// RegisterResource adds a resource descriptor keyed by URI.
// Returns ErrDuplicateName if the URI is taken.
func (r *Registry) RegisterResource(res *Resource) error {
	if res.URI == "" {
		return errors.New("resource uri is required")
	}
	if _, exists := r.resources[res.URI]; exists {
		return fmt.Errorf("%w: resource %q", ErrDuplicateName, res.URI)
	}
	r.resources[res.URI] = res
	r.resOrder = append(r.resOrder, res.URI)
	r.logger.Debug("registered resource", "uri", res.URI)
	return nil
}

// RegisterPrompt adds a prompt descriptor.
// Returns ErrDuplicateName if the name is taken.
func (r *Registry) RegisterPrompt(p *Prompt) error {
	if p.Name == "" {
		return errors.New("prompt name is required")
	}
	if _, exists := r.prompts[p.Name]; exists {
		return fmt.Errorf("%w: prompt %q", ErrDuplicateName, p.Name)
	}
	r.prompts[p.Name] = p
	r.promptOrder = append(r.promptOrder, p.Name)
	r.logger.Debug("registered prompt", "name", p.Name)
	return nil
}

// Tool looks up a tool by name.
func (r *Registry) Tool(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name])
	}
	return out
}

// Resource looks up a resource by URI.
func (r *Registry) Resource(uri string) (*Resource, bool) {
	res, ok := r.resources[uri]
	return res, ok
}

// Resources returns all resources in registration order.
func (r *Registry) Resources() []*Resource {
	out := make([]*Resource, 0, len(r.resOrder))
	for _, uri := range r.resOrder {
		out = append(out, r.resources[uri])
	}
	return out
}

// Prompt looks up a prompt by name.
func (r *Registry) Prompt(name string) (*Prompt, bool) {
	p, ok := r.prompts[name]
	return p, ok
}

// Prompts returns all prompts in registration order.
func (r *Registry) Prompts() []*Prompt {
	out := make([]*Prompt, 0, len(r.promptOrder))
	for _, name := range r.promptOrder {
		out = append(out, r.prompts[name])
	}
	return out
}
