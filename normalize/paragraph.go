package normalize

import (
	"regexp"
	"strings"
)

// Config controls paragraph assembly. Zero-value fields are replaced
// with the production defaults.
type Config struct {
	MaxParagraphChars   int // Buffer flush threshold while grouping lines.
	SplitThresholdChars int // Paragraphs longer than this are re-split.
}

func (c Config) withDefaults() Config {
	if c.MaxParagraphChars == 0 {
		c.MaxParagraphChars = 300
	}
	if c.SplitThresholdChars == 0 {
		c.SplitThresholdChars = 500
	}
	return c
}

// degenerateLen is the joined-input length under which body text passes
// through as a single paragraph without grouping or cleaning.
const degenerateLen = 50

// maxTitleLineLen bounds the short lines considered inline headings
// during grouping.
const maxTitleLineLen = 40

// minEmittedLen is the exclusive floor of the final pass. Buffered text
// already carries the higher CleanParagraph floor; this one catches
// split remainders and sub-length inline headings.
const minEmittedLen = 10

// Paragraphize groups body lines into cleaned paragraphs. A blank line,
// a short title-like line, or the buffer exceeding MaxParagraphChars
// flushes the running buffer; short title-like lines are emitted as
// their own paragraph. Paragraphs longer than SplitThresholdChars are
// re-split at punctuation boundaries. The second return value counts
// buffers and title lines dropped as noise.
func Paragraphize(lines []string, cfg Config) ([]string, int) {
	cfg = cfg.withDefaults()

	joined := strings.TrimSpace(strings.Join(lines, "\n"))
	if joined == "" {
		return nil, 0
	}
	if len(joined) < degenerateLen {
		return []string{joined}, 0
	}

	var paragraphs []string
	var buffer []string
	dropped := 0

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		text := CleanParagraph(strings.Join(buffer, " "))
		if text != "" {
			paragraphs = append(paragraphs, text)
		} else {
			dropped++
		}
		buffer = buffer[:0]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		if len(line) < maxTitleLineLen && (isAllUpper(line) || IsLikelyTitle(line)) {
			flush()
			if title := CleanTitle(line); title != "" {
				paragraphs = append(paragraphs, title)
			} else {
				dropped++
			}
			continue
		}

		buffer = append(buffer, line)
		if len(strings.Join(buffer, " ")) > cfg.MaxParagraphChars {
			flush()
		}
	}
	flush()

	var final []string
	for _, p := range paragraphs {
		if len(p) > cfg.SplitThresholdChars {
			final = append(final, SplitLong(p, cfg.SplitThresholdChars)...)
		} else {
			final = append(final, p)
		}
	}

	kept := final[:0]
	for _, p := range final {
		if len(strings.TrimSpace(p)) > minEmittedLen {
			kept = append(kept, p)
		} else {
			dropped++
		}
	}
	return kept, dropped
}

// boundaryPatterns are the ordered split points for over-long
// paragraphs. Every pattern begins with the punctuation mark the cut
// keeps on the left fragment.
var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.\s+[A-Z]`), // sentence end before a capital
	regexp.MustCompile(`;\s+`),
	regexp.MustCompile(`\.\s*$`),
	regexp.MustCompile(`\?\s+`),
	regexp.MustCompile(`!\s+`),
}

// minFragmentLen is the smallest left fragment a boundary cut may
// produce.
const minFragmentLen = 20

// bisectWordCount is the word count above which a paragraph with no
// usable punctuation boundary is bisected.
const bisectWordCount = 50

// SplitLong recursively splits text into fragments no longer than
// threshold. It cuts at the first boundary pattern that yields a left
// fragment of at least minFragmentLen and recurses on the remainder;
// with no usable boundary, text over bisectWordCount words is bisected
// at the word midpoint. Text that cannot be split is returned as is.
func SplitLong(text string, threshold int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= threshold {
		return []string{text}
	}

	for _, re := range boundaryPatterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		first := strings.TrimSpace(text[:loc[0]+1])
		rest := strings.TrimSpace(text[loc[0]+1:])
		if len(first) < minFragmentLen || rest == "" {
			continue
		}
		// The left fragment can itself exceed the threshold when the
		// first boundary sits late in the text; re-split it through the
		// later patterns.
		return append(SplitLong(first, threshold), SplitLong(rest, threshold)...)
	}

	words := strings.Fields(text)
	if len(words) > bisectWordCount {
		mid := len(words) / 2
		left := strings.Join(words[:mid], " ")
		right := strings.Join(words[mid:], " ")
		return append(SplitLong(left, threshold), SplitLong(right, threshold)...)
	}
	return []string{text}
}
