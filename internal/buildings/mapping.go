package buildings

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "buildings", "b").
	Project("id", "ID").
	Project("name", "Name").
	Project("address", "Address").
	Project("total_floors", "TotalFloors").
	Project("building_type", "BuildingType").
	Project("is_hrb", "HRB").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for building queries.
// Name and Address use case-insensitive contains matching; the rest match exactly.
type Filters struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	BuildingType *string `json:"building_type,omitempty"`
	HRB          *bool   `json:"is_hrb,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereContains("Address", f.Address).
		WhereEquals("BuildingType", f.BuildingType).
		WhereEquals("HRB", f.HRB)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if a := values.Get("address"); a != "" {
		f.Address = &a
	}
	if bt := values.Get("building_type"); bt != "" {
		f.BuildingType = &bt
	}
	if h := values.Get("is_hrb"); h != "" {
		if v, err := strconv.ParseBool(h); err == nil {
			f.HRB = &v
		}
	}

	return f
}

func scanBuilding(s repository.Scanner) (Building, error) {
	var b Building
	err := s.Scan(
		&b.ID,
		&b.Name,
		&b.Address,
		&b.TotalFloors,
		&b.BuildingType,
		&b.HRB,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}
