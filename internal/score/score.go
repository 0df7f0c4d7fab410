// Package score implements the deterministic job-quality scoring engine.
//
// Scoring is a pure function of the JobRecord: rule categories are evaluated
// independently against lowercased text views of the record, the first
// matching rule within a category applies, and category contributions sum.
// The engine has no hidden state and is safe for concurrent use.
package score

import (
	"strings"

	"jobsift/internal/types"
)

// fields holds the lowercased text views every rule predicate operates on.
type fields struct {
	desc       string
	title      string
	experience string
	company    string
	location   string
	complete   bool
}

// rule is one scoring branch: the first rule whose predicate matches within a
// category contributes its points (and tag, if any); later rules in the same
// category are skipped.
type rule struct {
	match  func(f fields) bool
	points int
	tag    string
}

// category is an ordered list of mutually exclusive rules.
type category struct {
	name  string
	rules []rule
}

// Evaluate scores a job record. It never fails: absent or empty fields simply
// do not trigger their bonuses.
func Evaluate(rec types.JobRecord) types.ScoreResult {
	f := newFields(rec)

	result := types.ScoreResult{Tags: []string{}}
	for _, cat := range ruleTable {
		for _, r := range cat.rules {
			if !r.match(f) {
				continue
			}
			result.Score += r.points
			if r.tag != "" {
				result.Tags = append(result.Tags, r.tag)
			}
			break
		}
	}

	result.Tier = tierFor(result.Score)
	return result
}

// newFields builds the lowercased views. The experience field is normalized
// from its sequence form into a single space-joined string before matching.
func newFields(rec types.JobRecord) fields {
	desc := strings.ToLower(rec.JobDescription)
	return fields{
		desc:       desc,
		title:      strings.ToLower(rec.JobTitle),
		experience: strings.ToLower(strings.Join(rec.ExperienceRequired, " ")),
		company:    strings.ToLower(rec.CompanyName),
		location:   strings.ToLower(rec.Location),
		complete: rec.JobTitle != "" && rec.JobDescription != "" &&
			rec.CompanyName != "" && rec.Location != "",
	}
}

// tierFor maps a summed score onto its quality tier.
func tierFor(score int) string {
	switch {
	case score >= 11:
		return types.TierHigh
	case score >= 7:
		return types.TierMedium
	default:
		return types.TierLow
	}
}
