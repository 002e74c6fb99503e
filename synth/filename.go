package synth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	spaceRunPattern = regexp.MustCompile(`\s+`)
)

// maxFilenameLen caps generated filenames; slugs of over-long titles are
// cut back to truncatedSlugLen.
const (
	maxFilenameLen   = 100
	truncatedSlugLen = 50
)

// Filename derives the data module filename for a section title at
// 1-based sequence seq: a zero-padded sequence prefix plus an ASCII slug
// of the title.
func (s *Synthesizer) Filename(title string, seq int) string {
	slug := slugify(title)
	name := fmt.Sprintf("dm_%0*d_%s.xml", s.cfg.IDWidth, seq, slug)
	if len(name) > maxFilenameLen {
		slug = strings.TrimRight(slug[:truncatedSlugLen], "_")
		name = fmt.Sprintf("dm_%0*d_%s.xml", s.cfg.IDWidth, seq, slug)
	}
	return name
}

// slugify reduces a title to an underscore-separated ASCII token.
// Titles with nothing left after cleaning get a fixed placeholder so the
// filename stays well formed.
func slugify(title string) string {
	slug := transliterate(title)
	slug = nonAlnumPattern.ReplaceAllString(slug, "")
	slug = spaceRunPattern.ReplaceAllString(strings.TrimSpace(slug), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "Unknown_Topic"
	}
	return slug
}

// transliterate folds accented letters to their ASCII base form.
// Decomposition drops combining marks; dotless i has no decomposition
// and is mapped by hand.
func transliterate(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, folded)
}
