package segment

import (
	"strings"

	"github.com/brunobiangulo/dmforge/classify"
	"github.com/brunobiangulo/dmforge/extract"
)

// Section is a contiguous run of source lines opened by a recognized
// heading. StartPage never exceeds EndPage.
type Section struct {
	Title     string
	BodyLines []string
	Domain    classify.Domain
	StartPage int
	EndPage   int
}

// Assemble walks the page-tagged line stream, opening a new section at
// every line the classifier flags as a heading. Content lines belong to
// the open section; lines before the first heading are discarded, as is
// any section that never accumulates a body. EndPage tracks the page of
// the last body line, extended to the document's last page for the
// final section.
func Assemble(lines []extract.Line, c *classify.Classifier) []Section {
	var sections []Section
	var cur *Section
	lastPage := 1

	for _, ln := range lines {
		if ln.Page > lastPage {
			lastPage = ln.Page
		}

		text := strings.TrimSpace(ln.Text)
		if text == "" {
			continue
		}

		decision := c.Classify(text)
		if decision.IsHeading {
			if cur != nil && len(cur.BodyLines) > 0 {
				sections = append(sections, *cur)
			}
			cur = &Section{
				Title:     text,
				Domain:    decision.Domain,
				StartPage: ln.Page,
				EndPage:   ln.Page,
			}
			continue
		}

		if cur != nil {
			cur.BodyLines = append(cur.BodyLines, text)
			if ln.Page > cur.EndPage {
				cur.EndPage = ln.Page
			}
		}
	}

	if cur != nil && len(cur.BodyLines) > 0 {
		if lastPage > cur.EndPage {
			cur.EndPage = lastPage
		}
		sections = append(sections, *cur)
	}

	return sections
}
