package agent

import (
	"fmt"
	"sort"
)

// Registry maps tool names to tools. It is populated once at startup by
// merging tool groups; a duplicate name across groups is a configuration
// error surfaced at registration time. After Freeze the registry is
// read-only.
type Registry struct {
	tools  map[string]Tool
	frozen bool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. It fails on empty names, duplicate names, and
// registration after Freeze.
func (r *Registry) Register(tool Tool) error {
	if r.frozen {
		return fmt.Errorf("registry is frozen, cannot register %q", tool.Name())
	}
	if tool.Name() == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %q is already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// RegisterGroup adds every tool in a group, stopping at the first error.
func (r *Registry) RegisterGroup(group []Tool) error {
	for _, tool := range group {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// Freeze marks the registry immutable. Called once after all groups are
// merged.
func (r *Registry) Freeze() { r.frozen = true }

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Tools returns all registered tools in name order.
func (r *Registry) Tools() []Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}
