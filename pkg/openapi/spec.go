// Package openapi generates an OpenAPI 3.1 description of the registered
// route groups.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/JaimeStill/steward/pkg/routes"
)

var pathParam = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Tags       []*Tag               `json:"tags,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddGroups describes every route in groups. Each top-level group becomes a
// tag named after its prefix and nested groups inherit it. Routes with a
// method other than GET or POST are rejected.
func (s *Spec) AddGroups(groups ...routes.Group) error {
	for _, g := range groups {
		tag := strings.Trim(g.Prefix, "/")
		if tag != "" {
			s.Tags = append(s.Tags, &Tag{Name: tag})
		}

		err := g.Walk(func(path string, r routes.Route) error {
			if path == "" {
				path = "/"
			}
			return s.addOperation(r.Method, path, newOperation(tag, path, r))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Spec) addOperation(method, path string, op *Operation) error {
	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	default:
		return fmt.Errorf("openapi: unsupported method %s %s", method, path)
	}
	return nil
}

func newOperation(tag, path string, r routes.Route) *Operation {
	op := &Operation{
		OperationID: operationID(r.Method, path),
		Summary:     r.Summary,
		Responses: map[int]*Response{
			http.StatusOK:                  {Description: "Success"},
			http.StatusBadRequest:          ResponseRef(responseName(http.StatusBadRequest)),
			http.StatusInternalServerError: ResponseRef(responseName(http.StatusInternalServerError)),
		},
	}
	if tag != "" {
		op.Tags = []string{tag}
	}

	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		op.Parameters = append(op.Parameters, PathParam(m[1]))
	}
	if len(op.Parameters) > 0 {
		op.Responses[http.StatusNotFound] = ResponseRef(responseName(http.StatusNotFound))
	}

	if r.Method == http.MethodPost {
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]*MediaType{
				"application/json": {Schema: &Schema{Type: "object"}},
			},
		}
		op.Responses[http.StatusRequestEntityTooLarge] = ResponseRef(responseName(http.StatusRequestEntityTooLarge))
		op.Responses[http.StatusUnprocessableEntity] = ResponseRef(responseName(http.StatusUnprocessableEntity))
	}

	return op
}

// operationID derives a stable identifier such as get_ledger_document_id_latest.
func operationID(method, path string) string {
	parts := []string{strings.ToLower(method)}
	for seg := range strings.SplitSeq(path, "/") {
		seg = strings.Trim(seg, "{}")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "_")
}

// Marshal renders the document as indented JSON.
func (s *Spec) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ServeSpec serves a document rendered once at startup.
func ServeSpec(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
