package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/steward/pkg/module"
)

// echo writes the path it sees, prefixed by tag.
func echo(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, tag+":"+r.URL.Path)
	}
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestPrefixValidation(t *testing.T) {
	for _, prefix := range []string{"/api", "/metrics", "/docs"} {
		if got := module.New(prefix, http.NewServeMux()).Prefix(); got != prefix {
			t.Errorf("Prefix() = %s, want %s", got, prefix)
		}
	}

	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) should panic", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		})
	}
}

func TestServeStripsPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /", echo("inner"))

	m := module.New("/api", mux)

	tests := map[string]string{
		"/api":                   "inner:/",
		"/api/buildings":         "inner:/buildings",
		"/api/ledger/document/x": "inner:/ledger/document/x",
	}
	for path, want := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Serve(rec, req)

		if got := rec.Body.String(); got != want {
			t.Errorf("Serve(%s) body = %q, want %q", path, got, want)
		}
		if req.URL.Path != path {
			t.Errorf("Serve(%s) mutated the caller's request path to %s", path, req.URL.Path)
		}
	}
}

func TestUseWrapsInOrder(t *testing.T) {
	m := module.New("/api", echo("inner"))

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	m.Use(tag("outer"), tag("inner"))

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest(http.MethodGet, "/api", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v, want [outer inner]", order)
	}
}

func TestRouter(t *testing.T) {
	api := http.NewServeMux()
	api.Handle("GET /buildings", echo("api"))

	router := module.NewRouter()
	router.Mount(module.New("/api", api))
	router.Mount(module.New("/docs", echo("docs")))
	router.HandleFunc("GET /healthz", echo("native"))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/api/buildings", http.StatusOK, "api:/buildings"},
		{"/api/buildings/", http.StatusOK, "api:/buildings"},
		{"/docs", http.StatusOK, "docs:/"},
		{"/healthz", http.StatusOK, "native:/healthz"},
		{"/apix/buildings", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRouterDuplicateMountPanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate prefix")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}
