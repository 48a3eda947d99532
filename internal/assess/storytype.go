package assess

import "strings"

// Story-type keyword table. Ordered so ties break deterministically toward
// the earlier entry.
var storyTypeKeywords = []struct {
	name     string
	keywords []string
}{
	{"UI", []string{
		"screen", "button", "display", "view",
		"layout", "form", "page", "dropdown",
	}},
	{"API", []string{
		"api", "endpoint", "request", "response",
		"payload", "status code", "http",
	}},
	{"BUSINESS_LOGIC", []string{
		"update", "calculate", "synchronizer",
		"trigger", "assign", "due date",
		"retest", "alternate", "complete",
	}},
	{"DATA", []string{
		"database", "record", "write",
		"save", "update record", "delete",
	}},
	{"PERMISSION", []string{
		"role", "access", "authorization",
		"permission", "security",
	}},
	{"PERFORMANCE", []string{
		"performance", "load", "speed",
		"response time", "timeout",
	}},
}

// Expected validation scenarios per story type, used in reporting to show
// reviewers what kinds of tests a story of this shape should carry.
var expectedScenarios = map[string][]string{
	"UI": {
		"UI rendering validation",
		"Field validation",
		"Negative input validation",
		"Boundary value validation",
	},
	"API": {
		"Positive API response validation",
		"Negative API response validation",
		"Payload validation",
		"Status code validation",
	},
	"BUSINESS_LOGIC": {
		"Trigger condition validation",
		"State transition validation",
		"Data integrity validation",
		"Negative logic validation",
		"Edge case validation",
	},
	"DATA": {
		"Database write validation",
		"Data persistence validation",
		"Rollback validation",
	},
	"PERMISSION": {
		"Authorized access validation",
		"Unauthorized access validation",
		"Role-based scenario validation",
	},
	"PERFORMANCE": {
		"Load validation",
		"Timeout validation",
		"Response time validation",
	},
	"GENERIC": {
		"Positive scenario validation",
		"Negative scenario validation",
	},
}

// StoryProfile is the dominant type of a story with the scenario kinds a
// story of that type is expected to validate.
type StoryProfile struct {
	Type              string
	ExpectedScenarios []string
}

// ClassifyStoryType picks the dominant story type from the combined title,
// description, and criteria text; no keyword hit at all falls back to
// GENERIC.
func ClassifyStoryType(title, description string, criteria []AcceptanceCriterion) StoryProfile {
	parts := []string{title, description}
	for _, ac := range criteria {
		parts = append(parts, ac.RawText)
	}
	combined := strings.Join(parts, " ")

	best, bestScore := "GENERIC", 0
	for _, st := range storyTypeKeywords {
		score := 0
		for _, kw := range st.keywords {
			if ContainsTerm(combined, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = st.name, score
		}
	}

	return StoryProfile{Type: best, ExpectedScenarios: expectedScenarios[best]}
}
