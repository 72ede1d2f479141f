// Package compliance classifies the extracted text of building safety
// documents into a compliance status, priority, and risk level. Each
// recognised document kind has an ordered rule table; the router selects the
// table by document type and then applies the due-date override.
//
// The package is pure: no I/O, no logging, and no clock access beyond the
// time value passed by the caller.
package compliance

import "errors"

// Sentinel errors for compliance value parsing.
var (
	ErrInvalidStatus    = errors.New("invalid compliance status")
	ErrInvalidRiskLevel = errors.New("invalid risk level")
	ErrInvalidPriority  = errors.New("invalid priority")
)
