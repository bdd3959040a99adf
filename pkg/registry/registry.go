// Package registry holds the allowlist of workflows the bridge may trigger.
//
// The registry is loaded once at process start from a static artifact
// (workflows/registry.json) and is immutable afterwards, so it is safe for
// unlimited concurrent readers. Handlers receive it by reference; a reload
// requires a restart.
package registry

// Entry describes one allowlisted workflow.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Enabled defaults to true when omitted from the artifact.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the entry may be triggered.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// document is the on-disk registry shape.
type document struct {
	Workflows []Entry `json:"workflows" yaml:"workflows"`
}

// Registry is an immutable workflow_key -> Entry mapping.
type Registry struct {
	entries map[string]Entry
	keys    []string
}

// Lookup returns the entry for key. Matching is case-sensitive and exact.
func (r *Registry) Lookup(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Keys returns the workflow keys in artifact order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of registered workflows.
func (r *Registry) Len() int {
	return len(r.entries)
}
