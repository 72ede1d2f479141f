package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/steward/pkg/middleware"
)

// Module mounts a router under a single-segment prefix such as /api, with
// its own middleware stack. The stack is composed on the first request,
// so every Use call must happen before the module serves traffic.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New panics when prefix is empty, lacks a leading slash or has more than
// one segment.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the prefix and hands the request to Handler.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, strip(req, m.prefix))
}

func (m *Module) Use(mws ...middleware.Middleware) {
	m.middleware.Use(mws...)
}

// strip returns a shallow copy of req with prefix removed from the path.
// The original request is left untouched for the outer logger.
func strip(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	u := new(url.URL)
	*u = *req.URL
	u.Path = path
	u.RawPath = ""

	r := req.Clone(req.Context())
	r.URL = u
	return r
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be a single segment: %s", prefix)
	}
	return nil
}
