package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JobRecord is the structured representation of a job posting extracted from a
// free-text message, an image, or a job-board page. Every field is optional:
// upstream extraction is untrusted and frequently partial.
type JobRecord struct {
	JobTitle           string   `json:"job_title"`
	JobDescription     string   `json:"job_description"`
	CompanyName        string   `json:"company_name"`
	Location           string   `json:"location"`
	ExperienceRequired []string `json:"experience_required"`
	TechStack          []string `json:"tech_stack"`
	ContactInfo        []string `json:"contact_info"`
}

// jobRecordWire mirrors JobRecord with loosely typed fields so that malformed
// extractor output (numbers where strings belong, a bare string where a list
// belongs) is coerced instead of failing the decode.
type jobRecordWire struct {
	JobTitle           any `json:"job_title"`
	JobDescription     any `json:"job_description"`
	CompanyName        any `json:"company_name"`
	Location           any `json:"location"`
	ExperienceRequired any `json:"experience_required"`
	TechStack          any `json:"tech_stack"`
	ContactInfo        any `json:"contact_info"`
}

// UnmarshalJSON decodes a JobRecord tolerantly: any scalar is coerced to its
// string representation, and list-valued fields accept either a single string
// or a sequence.
func (r *JobRecord) UnmarshalJSON(data []byte) error {
	var wire jobRecordWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.JobTitle = CoerceString(wire.JobTitle)
	r.JobDescription = CoerceString(wire.JobDescription)
	r.CompanyName = CoerceString(wire.CompanyName)
	r.Location = CoerceString(wire.Location)
	r.ExperienceRequired = CoerceStringSlice(wire.ExperienceRequired)
	r.TechStack = CoerceStringSlice(wire.TechStack)
	r.ContactInfo = CoerceStringSlice(wire.ContactInfo)
	return nil
}

// CoerceString converts any JSON value to a usable string. Nil becomes the
// empty string, sequences are joined with spaces, everything else falls back
// to its fmt representation.
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := CoerceString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case float64:
		// JSON numbers arrive as float64; print whole numbers without a decimal point.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// CoerceStringSlice converts any JSON value to a string slice. A scalar
// becomes a one-element slice, a sequence is coerced element-wise, nil stays
// nil.
func CoerceStringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := CoerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := CoerceString(val); s != "" {
			return []string{s}
		}
		return nil
	}
}

// Quality tiers derived from the numeric score.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// ScoreResult is the output of the scoring engine: a bounded numeric score, a
// coarse quality tier derived from it, and the tags explaining which rules
// fired, in rule-evaluation order.
type ScoreResult struct {
	Score int      `json:"score"`
	Tier  string   `json:"tier"`
	Tags  []string `json:"tags"`
}

// ScoredJob is a JobRecord together with its ScoreResult, flattened into one
// object the way downstream log readers expect it.
type ScoredJob struct {
	JobRecord
	ScoreResult
}

// MarshalJSON flattens the embedded structs into a single object.
func (s ScoredJob) MarshalJSON() ([]byte, error) {
	type record JobRecord
	type result ScoreResult
	return json.Marshal(struct {
		record
		result
	}{record(s.JobRecord), result(s.ScoreResult)})
}

// UnmarshalJSON decodes both halves from the flattened object. Without it the
// embedded JobRecord's unmarshaler would be promoted and the score fields
// silently dropped.
func (s *ScoredJob) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.JobRecord); err != nil {
		return err
	}
	type result ScoreResult
	var r result
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	s.ScoreResult = ScoreResult(r)
	return nil
}

// ExtractJobInput is the input for LLM-backed job extraction.
type ExtractJobInput struct {
	Message string `json:"message"`
}
