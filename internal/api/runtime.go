package api

import (
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/pagination"
)

// Runtime is the infrastructure as seen from the API module: the same
// systems under a logger tagged module=api, plus the request-facing limits.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	Assessments config.AssessmentsConfig
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Assessments:    cfg.Assessments,
	}
}
