package documents_test

import (
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestFiltersFromQuery(t *testing.T) {
	buildingID := uuid.New()
	assetID := uuid.New()

	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"building_id":         {buildingID.String()},
			"compliance_asset_id": {assetID.String()},
			"document_type":       {"EICR"},
			"original_filename":   {"eicr"},
			"ocr_source":          {"azure-document-intelligence"},
		}

		f := documents.FiltersFromQuery(values)

		if f.BuildingID == nil || *f.BuildingID != buildingID {
			t.Errorf("BuildingID = %v, want %s", f.BuildingID, buildingID)
		}
		if f.ComplianceAssetID == nil || *f.ComplianceAssetID != assetID {
			t.Errorf("ComplianceAssetID = %v, want %s", f.ComplianceAssetID, assetID)
		}
		if f.DocumentType == nil || *f.DocumentType != "EICR" {
			t.Errorf("DocumentType = %v, want EICR", f.DocumentType)
		}
		if f.OriginalFilename == nil || *f.OriginalFilename != "eicr" {
			t.Errorf("OriginalFilename = %v, want eicr", f.OriginalFilename)
		}
		if f.OCRSource == nil || *f.OCRSource != "azure-document-intelligence" {
			t.Errorf("OCRSource = %v", f.OCRSource)
		}
	})

	t.Run("empty values", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.BuildingID != nil || f.ComplianceAssetID != nil || f.DocumentType != nil ||
			f.OriginalFilename != nil || f.OCRSource != nil {
			t.Errorf("expected all nil filters, got %+v", f)
		}
	})

	t.Run("malformed ids ignored", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{
			"building_id":         {"not-a-uuid"},
			"compliance_asset_id": {"42"},
		})

		if f.BuildingID != nil {
			t.Errorf("BuildingID = %v, want nil", f.BuildingID)
		}
		if f.ComplianceAssetID != nil {
			t.Errorf("ComplianceAssetID = %v, want nil", f.ComplianceAssetID)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "documents", "d").
		Project("building_id", "BuildingID").
		Project("compliance_asset_id", "ComplianceAssetID").
		Project("document_type", "DocumentType").
		Project("original_filename", "OriginalFilename").
		Project("ocr_source", "OCRSource")

	from := "SELECT d.building_id, d.compliance_asset_id, d.document_type, d.original_filename, d.ocr_source FROM public.documents d"

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		documents.Filters{}.Apply(b)
		sql, args := b.Build()

		if sql != from {
			t.Errorf("sql = %q, want %q", sql, from)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("filename contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		documents.Filters{OriginalFilename: ptr("gas")}.Apply(b)
		sql, args := b.Build()

		if want := from + " WHERE d.original_filename ILIKE $1"; sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 || args[0] != "%gas%" {
			t.Errorf("args = %v, want [%%gas%%]", args)
		}
	})

	t.Run("building and type combine with AND", func(t *testing.T) {
		id := uuid.New()
		b := query.NewBuilder(projection)
		documents.Filters{
			BuildingID:   &id,
			DocumentType: ptr("Fire Risk Assessment"),
		}.Apply(b)
		sql, args := b.Build()

		want := from + " WHERE d.building_id = $1 AND d.document_type = $2"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 {
			t.Fatalf("args length = %d, want 2", len(args))
		}
		if v, ok := args[0].(*uuid.UUID); !ok || *v != id {
			t.Errorf("args[0] = %v, want *%s", args[0], id)
		}
	})
}
