package buildings_test

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

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/buildings"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters buildings.Filters) (*pagination.PageResult[buildings.Building], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*buildings.Building, error)
	createFn func(ctx context.Context, cmd buildings.CreateCommand) (*buildings.Building, error)
	hrbFn    func(ctx context.Context, id uuid.UUID) (*buildings.HRBStatus, error)
}

func (m *mockSystem) Handler() *buildings.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters buildings.Filters) (*pagination.PageResult[buildings.Building], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*buildings.Building, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd buildings.CreateCommand) (*buildings.Building, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) HRB(ctx context.Context, id uuid.UUID) (*buildings.HRBStatus, error) {
	return m.hrbFn(ctx, id)
}

func newTestHandler(sys buildings.System) *buildings.Handler {
	return buildings.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *buildings.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

var towerID = uuid.MustParse("7b0e8400-e29b-41d4-a716-446655440000")

func sampleBuilding() buildings.Building {
	return buildings.Building{
		ID:           towerID,
		Name:         "Cedar Tower",
		Address:      "1 Cedar Way",
		TotalFloors:  "12",
		BuildingType: "Residential",
	}
}

func TestHandlerList(t *testing.T) {
	var captured buildings.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f buildings.Filters) (*pagination.PageResult[buildings.Building], error) {
			captured = f
			result := pagination.NewPageResult([]buildings.Building{sampleBuilding()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/buildings?is_hrb=true&building_type=Residential", nil)
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[buildings.Building]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || result.Data[0].ID != towerID {
		t.Errorf("unexpected result: %+v", result)
	}
	if captured.HRB == nil || !*captured.HRB {
		t.Error("is_hrb filter not passed")
	}
	if captured.BuildingType == nil || *captured.BuildingType != "Residential" {
		t.Error("building_type filter not passed")
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*buildings.Building, error) {
			if id != towerID {
				return nil, buildings.ErrNotFound
			}
			b := sampleBuilding()
			return &b, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/buildings/" + towerID.String(), http.StatusOK},
		{"not found", "/buildings/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/buildings/not-a-uuid", http.StatusBadRequest},
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

func TestHandlerCreate(t *testing.T) {
	var captured buildings.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd buildings.CreateCommand) (*buildings.Building, error) {
			captured = cmd
			if cmd.Name == "" {
				return nil, fmt.Errorf("%w: name required", buildings.ErrInvalidBuilding)
			}
			b := sampleBuilding()
			return &b, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("numeric floors", func(t *testing.T) {
		body := `{"name": "Cedar Tower", "total_floors": 12, "building_type": "Residential"}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/buildings", bytes.NewBufferString(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.TotalFloors != "12" {
			t.Errorf("total_floors = %q, want 12", captured.TotalFloors)
		}
	})

	t.Run("text floors kept verbatim", func(t *testing.T) {
		body := `{"name": "Old Mill", "total_floors": "ground + 3"}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/buildings", bytes.NewBufferString(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.TotalFloors != "ground + 3" {
			t.Errorf("total_floors = %q", captured.TotalFloors)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/buildings", bytes.NewBufferString(`{"address": "x"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/buildings", bytes.NewBufferString(`{"name": "x", "owner": "y"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerHRB(t *testing.T) {
	sys := &mockSystem{
		hrbFn: func(_ context.Context, id uuid.UUID) (*buildings.HRBStatus, error) {
			b := sampleBuilding()
			status := buildings.NewHRBStatus(&b)
			return &status, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("GET", "/buildings/"+towerID.String()+"/hrb", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status buildings.HRBStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.HRB || status.Floors != 12 {
		t.Errorf("status = %+v, want HRB with 12 floors", status)
	}
}

func TestNewHRBStatus(t *testing.T) {
	flag := true
	tests := []struct {
		name     string
		building buildings.Building
		want     bool
	}{
		{"tall residential", buildings.Building{TotalFloors: "7", BuildingType: "Residential"}, true},
		{"low office", buildings.Building{TotalFloors: "3", BuildingType: "Office"}, false},
		{"care home", buildings.Building{TotalFloors: "2", BuildingType: "Care Home"}, true},
		{"explicit flag", buildings.Building{TotalFloors: "", HRB: &flag}, true},
		{"malformed floors", buildings.Building{TotalFloors: "many", BuildingType: "Residential"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildings.NewHRBStatus(&tt.building).HRB; got != tt.want {
				t.Errorf("HRB = %v, want %v", got, tt.want)
			}
		})
	}
}
