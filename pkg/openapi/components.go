package openapi

import "net/http"

// errorResponses lists the shared error responses by status code. Each
// renders the JSON error body written by the handlers package.
var errorResponses = map[int]string{
	http.StatusBadRequest:            "Invalid request",
	http.StatusNotFound:              "Resource not found",
	http.StatusConflict:              "Conflicts with the current state of the record",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusUnprocessableEntity:   "References an unknown building or record",
	http.StatusInternalServerError:   "Unexpected server error",
}

// NewComponents creates Components with the shared error schema and responses.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
				Required: []string{"error"},
			},
		},
		Responses: make(map[string]*Response, len(errorResponses)),
	}

	for status, description := range errorResponses {
		c.Responses[responseName(status)] = &Response{
			Description: description,
			Content: map[string]*MediaType{
				"application/json": {Schema: SchemaRef("Error")},
			},
		}
	}

	return c
}

func responseName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusRequestEntityTooLarge:
		return "PayloadTooLarge"
	case http.StatusUnprocessableEntity:
		return "UnprocessableEntity"
	default:
		return "InternalError"
	}
}
