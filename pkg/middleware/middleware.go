package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware. The first
// middleware added is the outermost.
type System interface {
	Use(mws ...Middleware)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type stack struct {
	mws []Middleware
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mws ...Middleware) {
	for _, mw := range mws {
		if mw != nil {
			s.mws = append(s.mws, mw)
		}
	}
}

func (s *stack) Len() int {
	return len(s.mws)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.mws) - 1; i >= 0; i-- {
		handler = s.mws[i](handler)
	}
	return handler
}
