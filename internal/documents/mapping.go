package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("building_id", "BuildingID").
	Join("public", "buildings", "b", "d.building_id = b.id").
	ProjectFrom("b", "name", "BuildingName").
	Project("compliance_asset_id", "ComplianceAssetID").
	Project("document_type", "DocumentType").
	Project("original_filename", "OriginalFilename").
	Project("file_path", "FilePath").
	Project("ocr_source", "OCRSource").
	Project("text_key", "TextKey").
	Project("text_length", "TextLength").
	Project("created_by", "CreatedBy").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. OriginalFilename uses case-insensitive contains
// matching; the rest match exactly.
type Filters struct {
	BuildingID        *uuid.UUID `json:"building_id,omitempty"`
	ComplianceAssetID *uuid.UUID `json:"compliance_asset_id,omitempty"`
	DocumentType      *string    `json:"document_type,omitempty"`
	OriginalFilename  *string    `json:"original_filename,omitempty"`
	OCRSource         *string    `json:"ocr_source,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("BuildingID", f.BuildingID).
		WhereEquals("ComplianceAssetID", f.ComplianceAssetID).
		WhereEquals("DocumentType", f.DocumentType).
		WhereContains("OriginalFilename", f.OriginalFilename).
		WhereEquals("OCRSource", f.OCRSource)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if b := values.Get("building_id"); b != "" {
		if id, err := uuid.Parse(b); err == nil {
			f.BuildingID = &id
		}
	}
	if a := values.Get("compliance_asset_id"); a != "" {
		if id, err := uuid.Parse(a); err == nil {
			f.ComplianceAssetID = &id
		}
	}
	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}
	if fn := values.Get("original_filename"); fn != "" {
		f.OriginalFilename = &fn
	}
	if src := values.Get("ocr_source"); src != "" {
		f.OCRSource = &src
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.BuildingID,
		&d.BuildingName,
		&d.ComplianceAssetID,
		&d.DocumentType,
		&d.OriginalFilename,
		&d.FilePath,
		&d.OCRSource,
		&d.TextKey,
		&d.TextLength,
		&d.CreatedBy,
		&d.UploadedAt,
	)
	return d, err
}
