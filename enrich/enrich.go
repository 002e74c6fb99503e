package enrich

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brunobiangulo/dmforge/normalize"
	"github.com/brunobiangulo/dmforge/segment"
)

// Enriched is a merged section plus the metadata derived from its text.
type Enriched struct {
	segment.Section
	ContentType   ContentType
	Applicability string
	HasGraphics   bool
	Summary       string
}

// Enricher derives per-section metadata from title and body text. Every
// derivation is an independent pure function; unmatched input falls
// through to a default value rather than failing.
type Enricher struct {
	vocab Vocabulary
}

// New returns an Enricher backed by the given vocabulary.
func New(vocab Vocabulary) *Enricher {
	return &Enricher{vocab: vocab}
}

// Enrich derives all metadata for one merged section.
func (e *Enricher) Enrich(sec segment.Section) Enriched {
	body := strings.Join(sec.BodyLines, "\n")
	return Enriched{
		Section:       sec,
		ContentType:   e.ContentTypeOf(sec.Title, body),
		Applicability: Applicability(body),
		HasGraphics:   e.GraphicsIn(body),
		Summary:       e.Summarize(sec),
	}
}

// ContentTypeOf classifies text purpose through the tiered keyword
// cascade. Title keywords are checked before body keywords within each
// tier; the first tier with a hit wins, defaulting to MainHeading.
func (e *Enricher) ContentTypeOf(title, body string) ContentType {
	titleUpper := strings.ToUpper(title)
	bodyUpper := strings.ToUpper(body)

	for _, rule := range e.vocab.ContentTypeRules {
		if containsAny(titleUpper, rule.TitleKeywords) || containsAny(bodyUpper, rule.BodyKeywords) {
			return rule.Type
		}
	}
	return MainHeading
}

// Applicability derives the aircraft-variant tag from body text. An
// explicit all-models phrase short-circuits; paired variant letters
// combine, a single letter stands alone, and no letter at all means
// General.
func Applicability(body string) string {
	upper := strings.ToUpper(body)

	if strings.Contains(upper, "ALL MODELS") || strings.Contains(upper, "ALL VARIANTS") {
		return "All Models"
	}

	hasA := strings.Contains(upper, "F-16A")
	hasB := strings.Contains(upper, "F-16B")
	hasC := strings.Contains(upper, "F-16C")
	hasD := strings.Contains(upper, "F-16D")

	switch {
	case hasA && hasB:
		return "F-16A/B"
	case hasC && hasD:
		return "F-16C/D"
	case hasA:
		return "F-16A"
	case hasB:
		return "F-16B"
	case hasC:
		return "F-16C"
	case hasD:
		return "F-16D"
	}
	return "General"
}

// GraphicsIn reports whether any figure or image keyword appears in the
// body text.
func (e *Enricher) GraphicsIn(body string) bool {
	upper := strings.ToUpper(body)
	for _, kw := range e.vocab.GraphicsKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// Summarize builds a summary of at most four semicolon-joined clauses:
// page range, technical terms found in the body, the coarse content
// label, and the first body sentence of reasonable length. Clauses with
// no source data are omitted.
func (e *Enricher) Summarize(sec segment.Section) string {
	body := strings.Join(sec.BodyLines, "\n")
	if strings.TrimSpace(body) == "" {
		return "No content available"
	}

	var parts []string

	if sec.StartPage > 0 {
		parts = append(parts, fmt.Sprintf("Pages: %d-%d", sec.StartPage, sec.EndPage))
	}

	lower := strings.ToLower(body)

	var terms []string
	for _, term := range e.vocab.TechnicalTerms {
		if term.Fold {
			if strings.Contains(lower, strings.ToLower(term.Needle)) {
				terms = append(terms, term.Label)
			}
		} else if strings.Contains(body, term.Needle) {
			terms = append(terms, term.Label)
		}
	}
	if len(terms) > 0 {
		parts = append(parts, "Technical: "+strings.Join(terms, ", "))
	}

	label := "General Information"
	for _, tl := range e.vocab.TypeLabels {
		if containsAny(lower, tl.Needles) {
			label = tl.Label
			break
		}
	}
	parts = append(parts, "Type: "+label)

	if sentence := firstSentence(body); sentence != "" {
		parts = append(parts, "Description: "+sentence)
	}

	if len(parts) > 4 {
		parts = parts[:4]
	}
	return strings.Join(parts, "; ")
}

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

// firstSentence returns the first body sentence whose cleaned length
// lands in [30,150) characters.
func firstSentence(body string) string {
	for _, raw := range sentenceSplitPattern.Split(body, -1) {
		sentence := normalize.StripBoilerplate(raw)
		if len(sentence) >= 30 && len(sentence) < 150 {
			return sentence
		}
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
