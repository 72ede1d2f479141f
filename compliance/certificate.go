package compliance

import (
	"regexp"
	"strings"
)

var certificatePattern = regexp.MustCompile(`(?i)\b(?:cert(?:ificate)?|ref(?:erence)?|no)\b\.?(?:\s*(?:no|number)\.?)?[\s:#]*([A-Z0-9][A-Z0-9\-/]{5,})`)

var digit = regexp.MustCompile(`\d`)

// CertificateNumber returns the first labelled certificate or reference
// number in text, or "" when none is present. Candidates must contain a
// digit so that ordinary words following a label are not mistaken for one.
func CertificateNumber(text string) string {
	for _, m := range certificatePattern.FindAllStringSubmatch(text, -1) {
		if digit.MatchString(m[1]) {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}
