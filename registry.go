package topper

// Registry is the insertion-ordered set of resources bound to a server,
// kept alongside the matcher so startup logging and introspection can
// enumerate resources in registration order (original_source/src/server.cc
// prints its registered paths at startup in the same order they were
// added).
type Registry struct {
	router    *Router
	resources []*boundResource
}

// NewRegistry returns an empty registry over a fresh matcher.
func NewRegistry() *Registry {
	return &Registry{router: NewRouter()}
}

// Add binds r to its declared path. It fails with ErrTemplateCollision if
// the path is already registered.
func (reg *Registry) Add(r Resource) error {
	bound, err := bindResource(r)
	if err != nil {
		return err
	}
	if err := reg.router.Register(r.Path(), bound); err != nil {
		return err
	}
	reg.resources = append(reg.resources, bound)
	return nil
}

// Paths returns the registered path templates in registration order, for
// the startup banner.
func (reg *Registry) Paths() []string {
	paths := make([]string, len(reg.resources))
	for i, b := range reg.resources {
		paths[i] = b.resource.Path()
	}
	return paths
}

// Match resolves a request path to its bound resource, per spec.md section
// 4.4.
func (reg *Registry) Match(path string) (*boundResource, []string, bool) {
	return reg.router.Match(DecomposePath(path))
}
