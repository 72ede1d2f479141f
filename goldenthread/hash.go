package goldenthread

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentHash returns the SHA-256 of the entry's canonical JSON, excluding
// the identity, timestamp, and ledger-assigned fields. Entries built from the same
// inputs share a content hash.
func ContentHash(e Entry) string {
	e.ID = uuid.Nil
	e.CreatedAt = time.Time{}
	e.ContentHash = ""
	e.PrevHash = ""
	e.ChainHash = ""
	e.Sequence = 0

	// AIExtractionRaw is valid JSON by construction, so marshaling cannot fail.
	data, _ := json.Marshal(e)

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChainHash links an entry's content hash to the chain hash of the entry
// before it. The first entry in a chain has an empty prev.
func ChainHash(prev, content string) string {
	sum := sha256.Sum256([]byte(prev + content))
	return hex.EncodeToString(sum[:])
}
