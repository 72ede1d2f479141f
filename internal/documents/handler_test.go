package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
	"github.com/JaimeStill/steward/pkg/storage"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	createFn func(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	textFn   func(ctx context.Context, id uuid.UUID) (string, error)
}

func (m *mockSystem) Discard(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockSystem) Handler() *documents.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Text(ctx context.Context, id uuid.UUID) (string, error) {
	return m.textFn(ctx, id)
}

func newTestHandler(sys documents.System) *documents.Handler {
	return documents.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *documents.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

var (
	docID      = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	buildingID = uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")
)

func sampleDocument() documents.Document {
	return documents.Document{
		ID:               docID,
		BuildingID:       buildingID,
		BuildingName:     "Cedar Tower",
		DocumentType:     "EICR",
		OriginalFilename: "eicr-2026.pdf",
		FilePath:         "uploads/eicr-2026.pdf",
		OCRSource:        "vision",
		TextKey:          documents.TextKey(docID),
		TextLength:       4821,
		CreatedBy:        "surveyor@example.com",
		UploadedAt:       time.Now().Truncate(time.Second),
	}
}

func TestHandlerList(t *testing.T) {
	var captured documents.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f documents.Filters) (*pagination.PageResult[documents.Document], error) {
			captured = f
			result := pagination.NewPageResult([]documents.Document{sampleDocument()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/documents?building_id="+buildingID.String()+"&document_type=EICR", nil)
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[documents.Document]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].BuildingName != "Cedar Tower" {
		t.Errorf("unexpected data: %+v", result.Data)
	}
	if captured.BuildingID == nil || *captured.BuildingID != buildingID {
		t.Error("building_id filter not passed")
	}
	if captured.DocumentType == nil || *captured.DocumentType != "EICR" {
		t.Error("document_type filter not passed")
	}
}

func TestHandlerSearch(t *testing.T) {
	var captured pagination.PageRequest
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, _ documents.Filters) (*pagination.PageResult[documents.Document], error) {
			captured = page
			result := pagination.NewPageResult([]documents.Document{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("normalizes page size", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"page": 0, "page_size": 500, "search": "eicr"}`)
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/documents/search", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Page != 1 || captured.PageSize != 100 {
			t.Errorf("page = %d, size = %d; want 1, 100", captured.Page, captured.PageSize)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/documents/search", bytes.NewBufferString("{")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*documents.Document, error) {
			if id != docID {
				return nil, documents.ErrNotFound
			}
			d := sampleDocument()
			return &d, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/documents/" + docID.String(), http.StatusOK},
		{"not found", "/documents/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/documents/nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerText(t *testing.T) {
	const text = "ELECTRICAL INSTALLATION CONDITION REPORT\nOverall assessment: SATISFACTORY"

	sys := &mockSystem{
		textFn: func(_ context.Context, id uuid.UUID) (string, error) {
			switch id {
			case docID:
				return text, nil
			case buildingID:
				return "", fmt.Errorf("download extracted text: %w", storage.ErrNotFound)
			default:
				return "", documents.ErrNotFound
			}
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("returns plain text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+docID.String()+"/text", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
			t.Errorf("content type = %q", ct)
		}
		if rec.Body.String() != text {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("missing blob", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+buildingID.String()+"/text", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/documents/"+uuid.NewString()+"/text", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestTextKey(t *testing.T) {
	want := "documents/550e8400-e29b-41d4-a716-446655440000/extracted.txt"
	if got := documents.TextKey(docID); got != want {
		t.Errorf("TextKey = %s, want %s", got, want)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{documents.ErrNotFound, http.StatusNotFound},
		{documents.ErrDuplicate, http.StatusConflict},
		{documents.ErrReferenced, http.StatusConflict},
		{documents.ErrUnknownBuilding, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: building_id required", documents.ErrInvalidDocument), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := documents.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
