package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler. Summary is published
// in the generated API description.
type Route struct {
	Method  string
	Pattern string
	Summary string
	Handler http.HandlerFunc
}
