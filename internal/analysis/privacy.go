package analysis

import (
	"regexp"
	"strings"
)

// The privacy filter pattern-matches model output for content that could
// identify a person. Four independently testable categories; any hit rejects
// the whole analysis. The system prefers "no data" over "leaked data", so a
// rejected analysis is never redacted-and-stored.

// Violation is one pattern hit.
type Violation struct {
	Category string
	Match    string
}

// FilterResult is the verdict for a piece of model output.
type FilterResult struct {
	Clean      bool
	Violations []Violation
}

const (
	CategoryIdentity     = "identity-marker"
	CategoryLicensePlate = "license-plate"
	CategoryPerson       = "specific-person"
	CategoryAgency       = "agency-badge"
)

type patternSet struct {
	category string
	patterns []*regexp.Regexp
}

var violationSets = []patternSet{
	{
		category: CategoryIdentity,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                 // SSN-shaped
			regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`),           // phone-shaped
			regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.]+\b`),           // email
			regexp.MustCompile(`(?i)\b(?:id|identification)\s+(?:card|number)\b`),
		},
	},
	{
		category: CategoryLicensePlate,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b[A-Z]{2,3}[- ]?\d{3,4}\b`),            // ABC-1234
			regexp.MustCompile(`\b\d{1,3}[- ][A-Z]{2,3}[- ]\d{1,4}\b`),  // euro-style
			regexp.MustCompile(`(?i)\blicense\s+plate\b`),
		},
	},
	{
		category: CategoryPerson,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:man|woman|person|individual)\s+(?:named|called)\s+\w+`),
			regexp.MustCompile(`(?i)\b(?:his|her|their)\s+name\s+is\b`),
			regexp.MustCompile(`(?i)\b(?:recognizable|identifiable)\s+(?:face|person|individual)\b`),
			regexp.MustCompile(`(?i)\bname\s?tag\b`),
		},
	},
	{
		category: CategoryAgency,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bbadge\s+(?:number|no\.?|#)\s*\w+`),
			regexp.MustCompile(`\b(?i:officer|deputy|agent|detective)\s+[A-Z][a-z]+\b`),
			regexp.MustCompile(`(?i)\bunit\s+(?:number|#)\s*\d+\b`),
		},
	},
}

// Inspect runs every category against the text and collects all hits.
func Inspect(text string) FilterResult {
	var violations []Violation
	for _, set := range violationSets {
		for _, p := range set.patterns {
			for _, match := range p.FindAllString(text, -1) {
				violations = append(violations, Violation{Category: set.category, Match: match})
			}
		}
	}
	return FilterResult{Clean: len(violations) == 0, Violations: violations}
}

// Redact replaces every pattern hit with a category placeholder. Telemetry
// only: redacted text must never be persisted in place of a rejected analysis.
func Redact(text string) string {
	out := text
	for _, set := range violationSets {
		placeholder := "[" + set.category + "]"
		for _, p := range set.patterns {
			out = p.ReplaceAllString(out, placeholder)
		}
	}
	return out
}

// InspectAnalysis checks the summary and joined tags together.
func InspectAnalysis(a *Analysis) FilterResult {
	return Inspect(a.Summary + "\n" + strings.Join(a.Tags, " "))
}
