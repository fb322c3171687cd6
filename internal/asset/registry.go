package asset

// Registry issues stable handles for asset paths. The same path always maps to the same handle,
// which is what makes identity-based deduplication of scan results work across overlapping groups.
type Registry struct {
	byPath map[string]Handle
	paths  []string // index = handle-1
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byPath: make(map[string]Handle)}
}

// Handle returns the handle for p, issuing a new one on first use.
func (r *Registry) Handle(p string) Handle {
	if h, ok := r.byPath[p]; ok {
		return h
	}
	r.paths = append(r.paths, p)
	h := Handle(len(r.paths))
	r.byPath[p] = h
	return h
}

// Lookup returns the path for h.
func (r *Registry) Lookup(h Handle) (string, bool) {
	if h == 0 || int(h) > len(r.paths) {
		return "", false
	}
	return r.paths[h-1], true
}

// Len returns the number of issued handles.
func (r *Registry) Len() int {
	return len(r.paths)
}
