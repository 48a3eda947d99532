package assess

import (
	"regexp"
	"strings"
)

// Stopwords carry no matching signal and are dropped during tokenization.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "of": true,
	"for": true, "in": true, "on": true, "and": true, "or": true,
	"is": true, "are": true, "be": true, "should": true, "must": true,
	"user": true, "system": true, "able": true, "can": true,
	"when": true, "then": true, "with": true, "by": true, "as": true,
	"at": true, "it": true,
}

var (
	htmlTagRE   = regexp.MustCompile(`<[^>]*>`)
	nonAlnumRE  = regexp.MustCompile(`[^a-z0-9\s]+`)
	listItemRE  = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	ordinalRE   = regexp.MustCompile(`^\d+\.\s*`)
	bulletRE    = regexp.MustCompile(`^[-*\x{2022}]\s*`)
)

// CleanHTML strips markup tags, leaving only text content.
func CleanHTML(s string) string {
	return htmlTagRE.ReplaceAllString(s, "")
}

// Normalize lower-cases text, replaces non-alphanumeric runs with single
// spaces, and collapses whitespace. The result is the canonical form used by
// all keyword matching.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRE.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits normalized text into tokens with stopwords removed.
func Tokenize(s string) []string {
	var out []string
	for _, w := range strings.Fields(Normalize(s)) {
		if !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// ContainsTerm reports whether term occurs in text on word boundaries. Both
// sides are normalized first, so "min" does not match inside "minimum" and
// multi-word phrases match as full word sequences.
func ContainsTerm(text, term string) bool {
	t := " " + Normalize(text) + " "
	p := Normalize(term)
	if p == "" {
		return false
	}
	return strings.Contains(t, " "+p+" ")
}

// ContainsAny reports whether any of terms occurs in text on word boundaries.
func ContainsAny(text string, terms []string) bool {
	t := " " + Normalize(text) + " "
	for _, term := range terms {
		p := Normalize(term)
		if p != "" && strings.Contains(t, " "+p+" ") {
			return true
		}
	}
	return false
}

// ExtractCriteria splits a raw acceptance-criteria field into discrete
// criterion strings. If the field contains HTML list items, each item is one
// criterion; otherwise each non-blank line is one, with leading ordinal or
// bullet markers stripped. Empty input yields nil.
func ExtractCriteria(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	if items := listItemRE.FindAllStringSubmatch(raw, -1); len(items) > 0 {
		var out []string
		for _, m := range items {
			if text := strings.TrimSpace(CleanHTML(m[1])); text != "" {
				out = append(out, text)
			}
		}
		return out
	}

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(CleanHTML(line))
		if line == "" {
			continue
		}
		line = ordinalRE.ReplaceAllString(line, "")
		line = bulletRE.ReplaceAllString(line, "")
		out = append(out, line)
	}
	return out
}
