package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var pageMarkerPattern = regexp.MustCompile(`^\[PAGE_(\d+)\]$`)

// ParseMarked decodes page-tagged text into lines. A [PAGE_N] marker on
// its own line sets the page for the lines that follow; text before the
// first marker belongs to page 1. Markers and blank lines are consumed,
// not returned.
func ParseMarked(text string) []Line {
	var lines []Line
	page := 1
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := pageMarkerPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				page = n
			}
			continue
		}
		lines = append(lines, Line{Page: page, Text: line})
	}
	return lines
}

// WriteMarked encodes lines back into page-tagged text, emitting a
// [PAGE_N] marker each time the page number changes.
func WriteMarked(lines []Line) string {
	var b strings.Builder
	page := 0
	for _, ln := range lines {
		if ln.Page != page {
			page = ln.Page
			fmt.Fprintf(&b, "[PAGE_%d]\n", page)
		}
		b.WriteString(ln.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
