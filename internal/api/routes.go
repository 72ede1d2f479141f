package api

import (
	"net/http"

	"github.com/JaimeStill/steward/pkg/routes"
)

func groups(domain *Domain) []routes.Group {
	return []routes.Group{
		domain.Assessments.Handler().Routes(),
		domain.Ledger.Handler().Routes(),
		domain.Buildings.Handler().Routes(),
		domain.Documents.Handler().Routes(),
	}
}

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(mux, groups(domain)...)
}
