// Package goldenthread builds the append-only audit entries that make up a
// building's Golden Thread of safety information, and decides whether a
// building is a Higher-Risk Building.
package goldenthread

import (
	"math"
	"strconv"
	"strings"
)

// HRBFloorThreshold is the storey count at which a building is treated as
// higher-risk.
const HRBFloorThreshold = 7

// Building holds the building attributes used for HRB determination.
// TotalFloors is kept as supplied by the building record and may be blank or
// malformed.
type Building struct {
	TotalFloors  string `json:"total_floors"`
	BuildingType string `json:"building_type"`
	HRB          *bool  `json:"is_hrb"`
}

// Floors parses TotalFloors, returning 0 when it cannot be read.
func (b Building) Floors() int {
	s := strings.TrimSpace(b.TotalFloors)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0 {
		return int(min(f, math.MaxInt32))
	}
	return 0
}

// IsHRB reports whether b is a Higher-Risk Building. Any single trigger is
// sufficient: an explicit flag, seven or more floors, or a care home or
// hospital use. A nil building is not higher-risk.
func IsHRB(b *Building) bool {
	if b == nil {
		return false
	}
	if b.HRB != nil && *b.HRB {
		return true
	}

	floors := b.Floors()
	use := strings.ToLower(b.BuildingType)

	switch {
	case floors >= HRBFloorThreshold:
		return true
	case strings.Contains(use, "care home"):
		return true
	case strings.Contains(use, "hospital"):
		return true
	case strings.Contains(use, "residential") && floors >= HRBFloorThreshold:
		return true
	}
	return false
}
