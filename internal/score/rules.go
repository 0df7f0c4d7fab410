package score

import (
	"regexp"
	"strings"
)

// Tag vocabulary. Tags name the rule that fired so a human reviewer can see
// why a score was awarded.
const (
	TagUnpaid            = "unpaid"
	TagNegotiable        = "negotiable"
	TagWellPaid          = "well_paid"
	TagHighLearning      = "high_learning"
	TagLearningPotential = "learning_potential"
	TagStudentFriendly   = "student_friendly"
	TagReputedCompany    = "reputed_company"
	TagStartup           = "startup"
	TagRemote            = "remote"
	TagFullTime          = "full_time"
	TagClearInfo         = "clear_info"
)

// Word-boundary patterns. Whole-word matching keeps "intern" from matching
// inside "internet" or "international".
var (
	reUnpaid         = regexp.MustCompile(`\b(intern|unpaid)\b`)
	reCompensation   = regexp.MustCompile(`\b(inr|lpa|\$|salary|stipend)\b`)
	reStudentFit     = regexp.MustCompile(`\b(intern|fresher|0-1 year|entry level)\b`)
	reJuniorFit      = regexp.MustCompile(`1-2 years`)
	reputedCompanies = []string{"google", "microsoft", "amazon", "techcorp", "flipkart"}
)

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ruleTable is the complete scoring rule set. Categories are independent and
// additive; rules within a category are ordered by priority with first match
// winning.
var ruleTable = []category{
	{
		name: "compensation",
		rules: []rule{
			{match: func(f fields) bool { return reUnpaid.MatchString(f.desc) }, points: 1, tag: TagUnpaid},
			{match: func(f fields) bool { return strings.Contains(f.desc, "negotiable") }, points: 2, tag: TagNegotiable},
			{match: func(f fields) bool { return reCompensation.MatchString(f.desc) }, points: 3, tag: TagWellPaid},
		},
	},
	{
		name: "learning",
		rules: []rule{
			{match: func(f fields) bool {
				return containsAny(f.desc, "mentorship", "training", "learning", "hands-on")
			}, points: 2, tag: TagHighLearning},
			{match: func(f fields) bool {
				return containsAny(f.desc, "startup", "early-stage")
			}, points: 1, tag: TagLearningPotential},
		},
	},
	{
		name: "student_fit",
		rules: []rule{
			{match: func(f fields) bool { return reStudentFit.MatchString(f.desc) }, points: 2, tag: TagStudentFriendly},
			{match: func(f fields) bool { return reJuniorFit.MatchString(f.experience) }, points: 1},
		},
	},
	{
		name: "company_reputation",
		rules: []rule{
			{match: func(f fields) bool { return containsAny(f.company, reputedCompanies...) }, points: 2, tag: TagReputedCompany},
			{match: func(f fields) bool { return strings.Contains(f.desc, "startup") }, points: 1, tag: TagStartup},
		},
	},
	{
		name: "work_mode",
		rules: []rule{
			{match: func(f fields) bool {
				return containsAny(f.desc+f.location, "remote", "hybrid", "work from home")
			}, points: 1, tag: TagRemote},
		},
	},
	{
		name: "employment_type",
		rules: []rule{
			{match: func(f fields) bool { return containsAny(f.desc, "full-time", "permanent") }, points: 2, tag: TagFullTime},
			{match: func(f fields) bool { return containsAny(f.desc, "contract", "freelance") }, points: 1},
		},
	},
	{
		name: "completeness",
		rules: []rule{
			{match: func(f fields) bool { return f.complete && len(f.desc) > 100 }, points: 2, tag: TagClearInfo},
			{match: func(f fields) bool { return f.complete }, points: 1},
		},
	},
}
