package ai

import (
	"encoding/json"
	"strings"

	jobsiftErrors "jobsift/internal/errors"
	"jobsift/internal/types"
)

// DecodeRecord parses a model response into a JobRecord. Responses are
// usually clean JSON, but models occasionally wrap the payload in code
// fences or emit two objects back to back, so decoding falls back to
// scanning for balanced objects and merging them.
func DecodeRecord(raw string) (types.JobRecord, error) {
	var record types.JobRecord

	text := stripCodeFences(raw)
	if text == "" {
		return record, jobsiftErrors.NewAIError(jobsiftErrors.ErrCodeExtractionFailed,
			"Empty AI response", nil)
	}

	if err := json.Unmarshal([]byte(text), &record); err == nil {
		return record, nil
	}

	objects := findJSONObjects(text)
	if len(objects) == 0 {
		return record, jobsiftErrors.NewAIError(jobsiftErrors.ErrCodeExtractionFailed,
			"No JSON object found in AI response", nil)
	}

	merged := make(map[string]json.RawMessage)
	decodedAny := false
	for _, obj := range objects {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(obj), &fields); err != nil {
			continue
		}
		decodedAny = true
		for key, value := range fields {
			if existing, ok := merged[key]; ok && !isEmptyValue(existing) {
				continue
			}
			merged[key] = value
		}
	}
	if !decodedAny {
		return record, jobsiftErrors.NewAIError(jobsiftErrors.ErrCodeExtractionFailed,
			"AI response contained no decodable JSON object", nil)
	}

	rejoined, err := json.Marshal(merged)
	if err != nil {
		return record, jobsiftErrors.NewAIError(jobsiftErrors.ErrCodeExtractionFailed,
			"Failed to merge AI response fragments", err)
	}
	if err := json.Unmarshal(rejoined, &record); err != nil {
		return record, jobsiftErrors.NewAIError(jobsiftErrors.ErrCodeExtractionFailed,
			"Failed to parse merged AI response", err)
	}
	return record, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json")
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// findJSONObjects scans text for balanced top-level JSON objects,
// skipping braces inside string literals.
func findJSONObjects(text string) []string {
	var objects []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					objects = append(objects, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return objects
}

func isEmptyValue(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", `""`, "[]", "{}":
		return true
	}
	return false
}
