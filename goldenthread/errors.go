package goldenthread

import "errors"

// Sentinel errors for entry construction. Each is a caller contract
// violation; no entry is produced.
var (
	ErrMissingBuilding = errors.New("golden thread entry requires a building")
	ErrMissingDocument = errors.New("golden thread entry requires a document")
	ErrInvalidAction   = errors.New("invalid golden thread action type")
	ErrOverrideAction  = errors.New("user override requires the manual_override action type")
)
