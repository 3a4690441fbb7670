package grid

import (
	"sort"
	"sync"
)

// CellParams is passed to cell renderers.
type CellParams struct {
	Data      Row
	Value     any
	ColumnDef ColumnDef
}

// CellRenderer produces the display text of a cell.
type CellRenderer interface {
	RenderCell(p CellParams) string
}

// CellRendererFunc adapts a function to CellRenderer.
type CellRendererFunc func(p CellParams) string

// RenderCell calls f.
func (f CellRendererFunc) RenderCell(p CellParams) string {
	return f(p)
}

// Registry maps renderer names to implementations. A nil *Registry is empty.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]CellRenderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]CellRenderer)}
}

// Register binds name to r, replacing any previous binding. A nil r removes
// the binding.
func (r *Registry) Register(name string, cr CellRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cr == nil {
		delete(r.renderers, name)
		return
	}
	r.renderers[name] = cr
}

// Lookup returns the renderer bound to name.
func (r *Registry) Lookup(name string) (CellRenderer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cr, ok := r.renderers[name]
	return cr, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
