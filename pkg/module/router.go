package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Router sends requests to the module mounted at the first path segment.
// Anything no module claims goes to a plain ServeMux, which is where
// health, readiness and metrics endpoints live.
type Router struct {
	modules  map[string]*Module
	fallback *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules:  make(map[string]*Module),
		fallback: http.NewServeMux(),
	}
}

// Handle registers handler on the fallback mux.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.fallback.Handle(pattern, handler)
}

// HandleFunc registers fn on the fallback mux.
func (r *Router) HandleFunc(pattern string, fn http.HandlerFunc) {
	r.fallback.HandleFunc(pattern, fn)
}

// Mount claims the module's prefix. Mounting two modules at the same
// prefix panics.
func (r *Router) Mount(m *Module) {
	if _, taken := r.modules[m.prefix]; taken {
		panic(fmt.Sprintf("module: prefix %s already mounted", m.prefix))
	}
	r.modules[m.prefix] = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	trimSlash(req)

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}

	r.fallback.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}

// trimSlash drops a trailing slash so /api/buildings/ matches /api/buildings.
func trimSlash(req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}
}
