package synth

import (
	"fmt"
	"strconv"

	"github.com/brunobiangulo/dmforge/classify"
	"github.com/brunobiangulo/dmforge/enrich"
	"github.com/brunobiangulo/dmforge/normalize"
)

// Module is the finalized, schema-ready record derived from one merged
// section. Paragraphs and Subsections are mutually exclusive: past the
// subsection threshold the paragraphs move into groups.
type Module struct {
	Sequence      int
	Filename      string
	Title         string // display title, rewritten for clarity
	SourceTitle   string // heading text as it appeared in the manual
	Domain        classify.Domain
	DomainCode    string
	ContentType   enrich.ContentType
	Applicability string
	HasGraphics   bool
	Summary       string
	StartPage     int
	EndPage       int
	Paragraphs    []string
	Subsections   []Subsection
}

// Subsection is one group of paragraphs under a generated title.
type Subsection struct {
	ID         string
	Title      string
	Paragraphs []string
}

// Manifest is the inventory record for one module, as written to the
// module list outputs.
type Manifest struct {
	Sequence    int
	Filename    string
	Title       string
	DomainCode  string
	PageRange   string
	ContentType string
}

// Manifest derives the inventory record. The title is the source
// heading, not the rewritten display title.
func (m Module) Manifest() Manifest {
	pages := strconv.Itoa(m.StartPage)
	if m.EndPage != m.StartPage {
		pages = fmt.Sprintf("%d-%d", m.StartPage, m.EndPage)
	}
	return Manifest{
		Sequence:    m.Sequence,
		Filename:    m.Filename,
		Title:       m.SourceTitle,
		DomainCode:  m.DomainCode,
		PageRange:   pages,
		ContentType: string(m.ContentType),
	}
}

// subsectionThreshold is the paragraph count past which a module's
// content is grouped into subsections.
const subsectionThreshold = 8

// Config controls module synthesis. Zero values fall back to the
// production defaults.
type Config struct {
	IDWidth   int              // Zero-padding width of the filename sequence prefix.
	GroupSize int              // Paragraphs per subsection group.
	Paragraph normalize.Config // Paragraph assembly settings.
}

func (c Config) withDefaults() Config {
	if c.IDWidth == 0 {
		c.IDWidth = 3
	}
	if c.GroupSize == 0 {
		c.GroupSize = 4
	}
	return c
}

// Synthesizer maps enriched sections to Module records.
type Synthesizer struct {
	cfg   Config
	vocab classify.Vocabulary
}

// New returns a Synthesizer. The vocabulary supplies the domain code
// table.
func New(cfg Config, vocab classify.Vocabulary) *Synthesizer {
	return &Synthesizer{cfg: cfg.withDefaults(), vocab: vocab}
}

// Synthesize builds the Module for one enriched section at 1-based
// sequence seq. The second return value counts paragraphs dropped as
// noise during normalization.
func (s *Synthesizer) Synthesize(sec enrich.Enriched, seq int) (Module, int) {
	paragraphs, dropped := normalize.Paragraphize(sec.BodyLines, s.cfg.Paragraph)

	m := Module{
		Sequence:      seq,
		Filename:      s.Filename(sec.Title, seq),
		Title:         enrich.ImproveTitle(sec.Title, seq),
		SourceTitle:   sec.Title,
		Domain:        sec.Domain,
		DomainCode:    s.vocab.CodeOf(sec.Domain),
		ContentType:   sec.ContentType,
		Applicability: sec.Applicability,
		HasGraphics:   sec.HasGraphics,
		Summary:       sec.Summary,
		StartPage:     sec.StartPage,
		EndPage:       sec.EndPage,
	}

	if len(paragraphs) > subsectionThreshold {
		m.Subsections = groupSubsections(sec.Title, paragraphs, s.cfg.GroupSize)
	} else {
		m.Paragraphs = paragraphs
	}
	return m, dropped
}

// groupSubsections slices paragraphs into fixed-size groups, each under
// a generated part title derived from the source section title.
func groupSubsections(title string, paragraphs []string, size int) []Subsection {
	var subs []Subsection
	for i := 0; i < len(paragraphs); i += size {
		end := i + size
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		k := len(subs) + 1
		subs = append(subs, Subsection{
			ID:         fmt.Sprintf("subsection-%d", k),
			Title:      fmt.Sprintf("%s - Part %d", title, k),
			Paragraphs: paragraphs[i:end],
		})
	}
	return subs
}
