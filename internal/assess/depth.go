package assess

import (
	"regexp"
	"strings"
)

// Six scenario categories; each contributes a fixed number of points when
// at least one of its keywords appears in the test text.
var depthCategories = []struct {
	name     string
	keywords []string
}{
	{"negative", []string{"invalid", "error", "fail", "exception", "incorrect"}},
	{"boundary", []string{"max", "min", "limit", "boundary", "edge"}},
	{"empty_null", []string{"empty", "null", "blank"}},
	{"validation", []string{"required", "mandatory", "validation"}},
	{"integration", []string{"api", "service", "database", "backend"}},
	{"data_handling", []string{"save", "update", "delete", "insert"}},
}

const (
	depthCategoryPoints = 15
	// Category diversity alone cannot reach the maximum.
	depthCategoryCap = 75
)

// Numbered-list markers and literal "step" tokens signal structured steps.
var stepMarkerRE = regexp.MustCompile(`\bstep\b|\b\d+\.`)

// CalculateTestDepth rates the engineering rigor of test text, independent
// of any criterion: category diversity, step-count structure, and a length
// heuristic that penalizes shallow tests. Result is clamped to [0,100].
func CalculateTestDepth(testText string) float64 {
	if strings.TrimSpace(testText) == "" {
		return 0
	}

	score := 0.0
	for _, cat := range depthCategories {
		if ContainsAny(testText, cat.keywords) {
			score += depthCategoryPoints
		}
	}
	if score > depthCategoryCap {
		score = depthCategoryCap
	}

	stepCount := len(stepMarkerRE.FindAllString(strings.ToLower(testText), -1))
	switch {
	case stepCount >= 10:
		score += 20
	case stepCount >= 5:
		score += 10
	case stepCount >= 3:
		score += 5
	}

	wordCount := len(strings.Fields(testText))
	if wordCount < 30 {
		score *= 0.6 // shallow test penalty
	} else if wordCount > 150 {
		score += 10
	}

	return round2(clamp100(score))
}
