// Package documents implements the compliance document registry. Each
// document belongs to a building; its extracted text lives in blob storage
// and is referenced by key.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document is a registered compliance document.
type Document struct {
	ID                uuid.UUID  `json:"id"`
	BuildingID        uuid.UUID  `json:"building_id"`
	BuildingName      string     `json:"building_name"`
	ComplianceAssetID *uuid.UUID `json:"compliance_asset_id"`
	DocumentType      string     `json:"document_type"`
	OriginalFilename  string     `json:"original_filename"`
	FilePath          string     `json:"file_path"`
	OCRSource         string     `json:"ocr_source"`
	TextKey           string     `json:"text_key"`
	TextLength        int        `json:"text_length"`
	CreatedBy         string     `json:"created_by"`
	UploadedAt        time.Time  `json:"uploaded_at"`
}

// CreateCommand carries the data needed to register a document. Text is the
// full extracted text; it is written to blob storage, not to the row.
type CreateCommand struct {
	BuildingID        uuid.UUID
	ComplianceAssetID *uuid.UUID
	DocumentType      string
	OriginalFilename  string
	FilePath          string
	OCRSource         string
	Text              string
	CreatedBy         string
}
