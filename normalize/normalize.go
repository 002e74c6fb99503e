package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Boilerplate stripping
// ---------------------------------------------------------------------------

var (
	socialPattern     = regexp.MustCompile(`Facebook: \w+|Instagram: \w+|Twitter: \w+`)
	isbnPattern       = regexp.MustCompile(`ISBN: \d+[-\d]*`)
	circaPattern      = regexp.MustCompile(`circa \d{4}`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// minParagraphLen is the floor below which cleaned body text is dropped
// as noise.
const minParagraphLen = 20

// minTitleLen is the floor below which a cleaned title line is dropped.
const minTitleLen = 5

// CleanParagraph strips boilerplate from body text: social handles, ISBN
// markers, circa captions, one-character words, and short bare numbers.
// Whitespace runs collapse to a single space. Returns "" when the result
// falls under the minimum length, which callers treat as a drop signal.
func CleanParagraph(text string) string {
	if text == "" {
		return ""
	}

	text = socialPattern.ReplaceAllString(text, "")
	text = isbnPattern.ReplaceAllString(text, "")
	text = circaPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if len([]rune(w)) == 1 {
			continue
		}
		if len(w) < 4 && isDigits(w) {
			continue
		}
		kept = append(kept, w)
	}
	text = strings.Join(kept, " ")

	if len(text) < minParagraphLen {
		return ""
	}
	return text
}

// StripBoilerplate removes social handles and ISBN markers and collapses
// whitespace runs, with no length floor applied.
func StripBoilerplate(text string) string {
	text = socialPattern.ReplaceAllString(text, "")
	text = isbnPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// CleanTitle strips boilerplate from a heading line without the word
// filtering applied to body text. Returns "" for titles under the
// minimum length.
func CleanTitle(line string) string {
	if line == "" {
		return ""
	}
	line = StripBoilerplate(line)
	if len(line) < minTitleLen {
		return ""
	}
	return line
}

// ---------------------------------------------------------------------------
// Title detection
// ---------------------------------------------------------------------------

var titleFormPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.`),
	regexp.MustCompile(`^[A-Z][A-Z\s]+$`),
	regexp.MustCompile(`^(CHAPTER|SECTION|PART)`),
}

// IsLikelyTitle reports whether a short line looks like an inline
// heading rather than body text.
func IsLikelyTitle(line string) bool {
	if len(line) < 5 || len(line) > 60 {
		return false
	}

	upper := 0
	for _, r := range line {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if float64(upper)/float64(len([]rune(line))) > 0.7 {
		return true
	}

	for _, re := range titleFormPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
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

// isDigits reports whether s consists entirely of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
