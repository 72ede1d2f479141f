package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content is neither JSON nor JSON inside a
// markdown code fence.
var ErrParseFailed = errors.New("failed to parse json content")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// ExtractJSON returns the JSON document held in content. Model output often
// wraps JSON in a markdown code fence; the fence is stripped and the inner
// document returned byte-for-byte.
func ExtractJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if json.Valid([]byte(content)) {
		return json.RawMessage(content), nil
	}

	if m := jsonBlockRegex.FindStringSubmatch(content); len(m) >= 2 {
		inner := strings.TrimSpace(m[1])
		if json.Valid([]byte(inner)) {
			return json.RawMessage(inner), nil
		}
	}

	return nil, fmt.Errorf("%w: %.120s", ErrParseFailed, content)
}

// Parse extracts the JSON document from content and unmarshals it into T.
func Parse[T any](content string) (T, error) {
	var result T

	raw, err := ExtractJSON(content)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return result, nil
}
