package ai

import (
	"errors"
	"regexp"
)

// The gateway is asked for strict JSON but tends to wrap it in prose
// or markdown fences. These pull the first array/object shaped
// substring out of the reply. Greedy on purpose so nested brackets
// stay inside the match. Callers must always have a local fallback
// for when extraction or the later unmarshal fails

var (
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

	ErrNoJSON = errors.New("no JSON fragment found in reply")
)

// ExtractJSONArray returns the first JSON-array-looking substring of s
func ExtractJSONArray(s string) (string, error) {
	m := jsonArrayRe.FindString(s)
	if m == "" {
		return "", ErrNoJSON
	}

	return m, nil
}

// ExtractJSONObject returns the first JSON-object-looking substring of s
func ExtractJSONObject(s string) (string, error) {
	m := jsonObjectRe.FindString(s)
	if m == "" {
		return "", ErrNoJSON
	}

	return m, nil
}
