package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/goldenthread"
)

// Verification reports the integrity of a building's hash chain.
type Verification struct {
	BuildingID uuid.UUID  `json:"building_id"`
	Entries    int        `json:"entries"`
	Valid      bool       `json:"valid"`
	BrokenAt   *uuid.UUID `json:"broken_at,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Head       string     `json:"head"`
}

// VerifyChain walks entries in append order and recomputes every content and
// chain hash. It stops at the first entry that does not match.
func VerifyChain(buildingID uuid.UUID, entries []goldenthread.Entry) Verification {
	v := Verification{
		BuildingID: buildingID,
		Entries:    len(entries),
		Valid:      true,
	}

	prev := ""
	for _, e := range entries {
		if reason := check(buildingID, prev, e); reason != "" {
			id := e.ID
			v.Valid = false
			v.BrokenAt = &id
			v.Reason = reason
			return v
		}
		prev = e.ChainHash
	}

	v.Head = prev
	return v
}

func check(buildingID uuid.UUID, prev string, e goldenthread.Entry) string {
	if e.BuildingID != buildingID {
		return fmt.Sprintf("entry belongs to building %s", e.BuildingID)
	}
	if content := goldenthread.ContentHash(e); content != e.ContentHash {
		return "content hash mismatch"
	}
	if e.PrevHash != prev {
		return "previous hash does not link to the prior entry"
	}
	if goldenthread.ChainHash(prev, e.ContentHash) != e.ChainHash {
		return "chain hash mismatch"
	}
	return ""
}

// link assigns the chain fields of e given the chain hash of the entry
// before it.
func link(e *goldenthread.Entry, prev string) {
	e.ContentHash = goldenthread.ContentHash(*e)
	e.PrevHash = prev
	e.ChainHash = goldenthread.ChainHash(prev, e.ContentHash)
}
