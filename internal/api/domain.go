package api

import (
	"github.com/JaimeStill/steward/internal/assessments"
	"github.com/JaimeStill/steward/internal/buildings"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/ledger"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Buildings   buildings.System
	Documents   documents.System
	Ledger      ledger.System
	Assessments assessments.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	buildingsSystem := buildings.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	ledgerSystem := ledger.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	assessmentsSystem := assessments.New(
		&assessments.Runtime{
			Buildings: buildingsSystem,
			Documents: docsSystem,
			Ledger:    ledgerSystem,
			Notify:    runtime.Notify,
			Tracer:    runtime.Telemetry.Tracer("steward/assessments"),
			Logger:    runtime.Logger,
		},
		runtime.Assessments,
	)

	return &Domain{
		Buildings:   buildingsSystem,
		Documents:   docsSystem,
		Ledger:      ledgerSystem,
		Assessments: assessmentsSystem,
	}
}
