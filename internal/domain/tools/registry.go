package tools

// Registry maps a slug to its Operation. Catalog slugs with no
// registered operation dispatch to the fallback (the mock processor),
// so adding a tool never means editing a central switch.
type Registry struct {
	ops      map[string]Operation
	fallback func(slug string) Operation
}

// NewRegistry builds a registry whose unresolved slugs dispatch to the
// operation returned by fallback for that slug.
func NewRegistry(fallback func(slug string) Operation) *Registry {
	return &Registry{
		ops:      make(map[string]Operation),
		fallback: fallback,
	}
}

func (r *Registry) Register(slug string, op Operation) {
	r.ops[slug] = op
}

// Resolve returns the operation for a slug and whether it is a real
// (registered) implementation.
func (r *Registry) Resolve(slug string) (Operation, bool) {
	if op, ok := r.ops[slug]; ok {
		return op, true
	}
	return r.fallback(slug), false
}

// Implemented lists the registered slugs.
func (r *Registry) Implemented() []string {
	out := make([]string, 0, len(r.ops))
	for slug := range r.ops {
		out = append(out, slug)
	}
	return out
}
