// Package buildings implements the building domain. A building's floor
// count, use and explicit flag decide whether its documents belong to a
// Golden Thread.
package buildings

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/goldenthread"
)

// Building is a managed building record.
type Building struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	TotalFloors  string    `json:"total_floors"`
	BuildingType string    `json:"building_type"`
	HRB          *bool     `json:"is_hrb"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Attributes returns the fields that drive HRB determination.
func (b *Building) Attributes() *goldenthread.Building {
	if b == nil {
		return nil
	}
	return &goldenthread.Building{
		TotalFloors:  b.TotalFloors,
		BuildingType: b.BuildingType,
		HRB:          b.HRB,
	}
}

// IsHRB reports whether b is a Higher-Risk Building.
func (b *Building) IsHRB() bool {
	return goldenthread.IsHRB(b.Attributes())
}

// HRBStatus explains an HRB determination.
type HRBStatus struct {
	BuildingID   uuid.UUID `json:"building_id"`
	HRB          bool      `json:"is_hrb"`
	Floors       int       `json:"floors"`
	BuildingType string    `json:"building_type"`
	ExplicitFlag *bool     `json:"explicit_flag"`
}

// NewHRBStatus evaluates b.
func NewHRBStatus(b *Building) HRBStatus {
	return HRBStatus{
		BuildingID:   b.ID,
		HRB:          b.IsHRB(),
		Floors:       b.Attributes().Floors(),
		BuildingType: b.BuildingType,
		ExplicitFlag: b.HRB,
	}
}

// FloorCount accepts total_floors as a JSON string or number and keeps the
// text as supplied.
type FloorCount string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FloorCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FloorCount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("total_floors must be a string or number: %w", err)
	}
	*f = FloorCount(n.String())
	return nil
}

// CreateCommand carries the data needed to register a building.
type CreateCommand struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	TotalFloors  FloorCount `json:"total_floors"`
	BuildingType string     `json:"building_type"`
	HRB          *bool      `json:"is_hrb"`
}
