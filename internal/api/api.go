// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/module"
	"github.com/JaimeStill/steward/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain lets the server schedule background work, such as the
// expiry sweep, against the same systems the handlers use.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	spec, err := describe(cfg, domain)
	if err != nil {
		return nil, nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.CORS(&cfg.API.CORS),
		middleware.MaxBytes(cfg.API.MaxBodySizeBytes()),
		middleware.Logger(runtime.Infrastructure.Logger),
	)

	return m, domain, nil
}

func describe(cfg *config.Config, domain *Domain) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	for _, url := range cfg.API.OpenAPI.Servers {
		spec.AddServer(url)
	}
	if err := spec.AddGroups(groups(domain)...); err != nil {
		return nil, err
	}

	data, err := spec.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
