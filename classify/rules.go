package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Acceptance patterns
// ---------------------------------------------------------------------------

var (
	// Structural prefix: "CHAPTER 1", "SECTION 12", "PART 3", "CASE 2".
	chapterPattern = regexp.MustCompile(`(?i)^(CHAPTER|CASE|SECTION|PART)\s+\d+`)

	// Numbered long all-caps heading: "1. FLIGHT CONTROL SYSTEM ...".
	numberedCapsPattern = regexp.MustCompile(`^\d+\.\s+[A-Z][A-Z\s]{35,}$`)

	// Aggressive numbered form used by full mode: "1. Title", "2 OVERVIEW".
	looseNumberPattern = regexp.MustCompile(`^\d+\.?\s*[A-Z]`)

	// Title Case run used by full mode: "Flight Control Basics".
	titleCasePattern = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+`)

	// Parenthesized alphanumeric code: "(LEF)", "(AN/APG-68)".
	parenCodePattern = regexp.MustCompile(`\([A-Z0-9\-]+\)`)
)

// ---------------------------------------------------------------------------
// Rejection patterns
// ---------------------------------------------------------------------------

var (
	measurementPattern     = regexp.MustCompile(`(?i)\d+\.\d+|\d+kg|\d+lb|\d+ft|\d+m|\d+km|\d+mph|\d+kmh`)
	specKeywordPattern     = regexp.MustCompile(`(?i)WEIGHT|DIMENSIONS|POWERPLANT|CEILING|RANGE|ARMAMENT`)
	operatorPattern        = regexp.MustCompile(`(?i)OPERATORS|AIR FORCE|NAVY|MARINES`)
	modelBlockPattern      = regexp.MustCompile(`(?i)F-16[A-Z]?\s+BLOCK\s+\d+`)
	photoPattern           = regexp.MustCompile(`(?i)PHOTO|PICTURE|IMAGE|COVER`)
	circaPattern           = regexp.MustCompile(`(?i)circa\s+\d{4}|\d{4};\s+\w+`)
	dateFragmentPattern    = regexp.MustCompile(`,\s*\d{4}|;\s*\w+`)
	socialMediaPattern     = regexp.MustCompile(`(?i)Facebook|Instagram|Twitter|LinkedIn|Youtube`)
	squadronOrdinalPattern = regexp.MustCompile(`(?i)\d+th\s+\w+\s+\w+`)
	operatorUnitPattern    = regexp.MustCompile(`(?i)Guard|Wing|Squadron|Air Force|National Guard`)
	publisherPattern       = regexp.MustCompile(`(?i)COPYRIGHT|AMBER|BOOKS|LTD|RESEARCHER`)
	frontMatterPattern     = regexp.MustCompile(`(?i)INTRODUCTION|PREFACE|FOREWORD`)
	pageRefPattern         = regexp.MustCompile(`\s\d+$|\s\d+\.\d+$`)
)

// fullModeKeywords trigger acceptance in the aggressive full rule set.
var fullModeKeywords = []string{
	"SYSTEM", "PROCEDURE", "SPECIFICATION", "REQUIREMENT",
	"MAINTENANCE", "OPERATION", "CONTROL", "ENGINE", "WEAPON",
	"AVIONICS", "ELECTRICAL", "HYDRAULIC", "FUEL", "LANDING",
	"COCKPIT", "RADAR", "NAVIGATION", "COMMUNICATION", "SAFETY",
	"EMERGENCY", "FLIGHT", "DIGITAL", "COMPUTER", "SOFTWARE",
	"HARDWARE", "COMPONENT", "ASSEMBLY", "INSPECTION", "TEST",
	"CALIBRATION", "REPAIR", "REPLACEMENT", "INSTALLATION",
	"REMOVAL", "DISASSEMBLY", "CLEANING", "LUBRICATION",
}

// SmartRules returns the strict main-heading rule set. Acceptance is
// limited to four high-precision forms and a long rejection cascade
// filters out captions, operator lists, and specification rows that
// masquerade as headings. The vocabulary supplies the known top-level
// heading list.
func SmartRules(v Vocabulary) RuleSet {
	return RuleSet{
		Accept: []AcceptRule{
			{Name: "chapter-prefix", Exact: true, Match: chapterPattern.MatchString},
			{Name: "numbered-caps", Match: numberedCapsPattern.MatchString},
			{Name: "caps-window", Match: func(line string) bool {
				return isAllUpper(line) && len(line) >= 35 && len(line) <= 40
			}},
			{Name: "known-heading", Exact: true, Match: func(line string) bool {
				upper := strings.ToUpper(line)
				for _, h := range v.KnownHeadings {
					if upper == h {
						return true
					}
				}
				return false
			}},
		},
		Reject: []RejectRule{
			{Name: "too-long", Shape: true, Match: func(line string) bool { return len(line) > 45 }},
			{Name: "too-short", Shape: true, Match: func(line string) bool { return len(line) < 30 }},
			{Name: "repeated-words", Match: hasRepeatedWords},
			{Name: "measurement", Match: measurementPattern.MatchString},
			{Name: "paren-code", Match: parenCodePattern.MatchString},
			{Name: "spec-keyword", Match: specKeywordPattern.MatchString},
			{Name: "operator", Match: operatorPattern.MatchString},
			{Name: "model-block", Match: modelBlockPattern.MatchString},
			{Name: "photo-caption", Match: photoPattern.MatchString},
			{Name: "circa-caption", Match: circaPattern.MatchString},
			{Name: "date-fragment", Match: dateFragmentPattern.MatchString},
			{Name: "social-media", Match: socialMediaPattern.MatchString},
			{Name: "squadron-ordinal", Match: func(line string) bool {
				return squadronOrdinalPattern.MatchString(line) && len(line) < 40
			}},
			{Name: "operator-unit", Match: func(line string) bool {
				return operatorUnitPattern.MatchString(line) && len(line) < 50
			}},
			{Name: "publisher", Match: publisherPattern.MatchString},
			{Name: "front-matter", Match: frontMatterPattern.MatchString},
			{Name: "page-ref", Shape: true, Match: pageRefPattern.MatchString},
			{Name: "too-few-words", Shape: true, Match: func(line string) bool {
				return len(strings.Fields(line)) < 6
			}},
		},
	}
}

// FullRules returns the aggressive rule set: any plausible heading form
// is accepted and nothing is rejected. Used when over-segmentation is
// preferable to missed sections.
func FullRules() RuleSet {
	return RuleSet{
		Accept: []AcceptRule{
			{Name: "all-caps", Match: func(line string) bool {
				return isAllUpper(line) && len(line) > 3
			}},
			{Name: "numbered", Match: looseNumberPattern.MatchString},
			{Name: "keyword", Match: func(line string) bool {
				upper := strings.ToUpper(line)
				for _, kw := range fullModeKeywords {
					if strings.Contains(upper, kw) {
						return true
					}
				}
				return false
			}},
			{Name: "title-case", Match: func(line string) bool {
				return titleCasePattern.MatchString(line) && len(strings.Fields(line)) <= 5
			}},
			{Name: "paren-code", Match: parenCodePattern.MatchString},
			{Name: "length-window", Match: func(line string) bool {
				return len(line) > 20 && len(line) < 100 && !strings.HasSuffix(line, ".")
			}},
		},
	}
}

// isAllUpper reports whether line contains at least one letter and no
// lowercase letters.
func isAllUpper(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// hasRepeatedWords reports whether fewer than 85% of the line's words
// are unique, a sign of running text rather than a heading.
func hasRepeatedWords(line string) bool {
	words := strings.Fields(strings.ToUpper(line))
	if len(words) == 0 {
		return false
	}
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		seen[w] = true
	}
	return float64(len(seen)) < float64(len(words))*0.85
}
