package routes

import "net/http"

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Walk calls fn for each route in g and its children, depth first, with
// the route's path joined onto every enclosing prefix. It stops at the
// first error.
func (g Group) Walk(fn func(path string, r Route) error) error {
	return g.walk("", fn)
}

func (g Group) walk(parent string, fn func(string, Route) error) error {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		if err := fn(prefix+r.Pattern, r); err != nil {
			return err
		}
	}
	for _, child := range g.Children {
		if err := child.walk(prefix, fn); err != nil {
			return err
		}
	}
	return nil
}

// Register adds every route in groups to mux as "METHOD path" patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.Walk(func(path string, r Route) error {
			mux.HandleFunc(r.Method+" "+path, r.Handler)
			return nil
		})
	}
}
