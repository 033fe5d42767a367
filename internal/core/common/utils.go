package common

import (
	"encoding/json"
	"fmt"
)

// ParseJSON extracts the first balanced JSON object from an LLM response and
// unmarshals it into T. Surrounding prose and markdown fences are ignored.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr, ok := ExtractFirstJSON(response)
	if !ok {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// ExtractFirstJSON returns the first top-level {...} block in text. Braces
// inside JSON strings are not counted.
func ExtractFirstJSON(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
