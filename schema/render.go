package schema

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/brunobiangulo/dmforge/synth"
)

// Status reasons recorded for the two processing modes.
const (
	ReasonSmart = "smart_processing_main_headings"
	ReasonFull  = "full_processing_130_pages"
)

// maxSummaryLen caps the contentSummary attribute.
const maxSummaryLen = 200

// ErrInvalidCharacter is returned when module text contains a control
// character that XML 1.0 cannot carry.
var ErrInvalidCharacter = errors.New("schema: control character in module text")

// Config controls document rendering. Zero values fall back to the
// production defaults; Date defaults to the current day.
type Config struct {
	Date    string // Status and issue date, YYYY-MM-DD.
	Reason  string // Status reason recorded in every document.
	IDWidth int    // Zero-padding width for module numbers.
}

func (c Config) withDefaults() Config {
	if c.Date == "" {
		c.Date = time.Now().Format("2006-01-02")
	}
	if c.Reason == "" {
		c.Reason = ReasonSmart
	}
	if c.IDWidth == 0 {
		c.IDWidth = 3
	}
	return c
}

// Renderer serializes module records as S1000D-style XML documents.
type Renderer struct {
	cfg Config
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg.withDefaults()}
}

// Render serializes one module, with total the run's module count. The
// output starts with the XML declaration. A module whose text cannot be
// carried in XML fails alone; the caller decides whether the run
// continues.
func (r *Renderer) Render(m synth.Module, total int) ([]byte, error) {
	if err := validate(m); err != nil {
		return nil, err
	}
	out, err := xml.MarshalIndent(r.document(m, total), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling data module: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func (r *Renderer) document(m synth.Module, total int) Document {
	return Document{
		NS:      nsS1000D,
		NSXSI:   nsXSI,
		NSXLink: nsXLink,
		Status: DMStatus{
			Ident: Ident{
				Model:              "F-16",
				System:             "AIRCRAFT",
				SystemCode:         "F16-001",
				SubSystem:          string(m.Domain),
				SubSystemCode:      m.DomainCode,
				Assy:               "MANUAL",
				AssyCode:           "MAN-001",
				Disassy:            "SECTION",
				DisassyCode:        fmt.Sprintf("DM%0*d", r.cfg.IDWidth, m.Sequence),
				DisassyCodeVariant: "A",
				InfoCode:           "DESC",
				InfoCodeVariant:    "001",
				ItemLocationCode:   "LOC-001",
				LearnCode:          "LRN-001",
				LearnEventCode:     "EVT-001",
				Item:               "ITEM-001",
				ItemCode:           "ITM-001",
				ItemCodeVariant:    "A",
			},
			Status: Status{Work: "new", Date: r.cfg.Date, Reason: r.cfg.Reason},
			Issue: Issue{
				Number:   "001",
				Date:     r.cfg.Date,
				InWork:   "false",
				Released: "true",
			},
		},
		Content: Content{Description: r.description(m, total)},
	}
}

func (r *Renderer) description(m synth.Module, total int) Description {
	d := Description{
		Title:      m.Title,
		Paragraphs: m.Paragraphs,
		Applic: Applic{
			PropertyIdent: "AIRCRAFT_MODEL",
			PropertyValue: "F-16",
			Applicability: Applicability{
				Assert: Assert{PropertyIdent: "AIRCRAFT_MODEL", PropertyValue: "F-16"},
			},
		},
		Info: ModuleInfo{
			ModuleNumber:   fmt.Sprintf("%0*d", r.cfg.IDWidth, m.Sequence),
			TotalModules:   fmt.Sprintf("%0*d", r.cfg.IDWidth, total),
			SourcePage:     sourcePage(m.StartPage, m.EndPage),
			ContentType:    string(m.ContentType),
			Applicability:  m.Applicability,
			HasGraphics:    strconv.FormatBool(m.HasGraphics),
			ContentSummary: truncate(m.Summary, maxSummaryLen),
		},
	}
	for _, sub := range m.Subsections {
		d.Subsections = append(d.Subsections, Subsection{
			ID:         sub.ID,
			Title:      sub.Title,
			Paragraphs: sub.Paragraphs,
		})
	}
	return d
}

func sourcePage(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// validate rejects text XML 1.0 cannot carry so one bad module does not
// abort a whole run.
func validate(m synth.Module) error {
	if err := checkText("title", m.Title); err != nil {
		return err
	}
	for i, p := range m.Paragraphs {
		if err := checkText(fmt.Sprintf("paragraph %d", i+1), p); err != nil {
			return err
		}
	}
	for _, sub := range m.Subsections {
		if err := checkText(sub.ID+" title", sub.Title); err != nil {
			return err
		}
		for i, p := range sub.Paragraphs {
			if err := checkText(fmt.Sprintf("%s paragraph %d", sub.ID, i+1), p); err != nil {
				return err
			}
		}
	}
	return checkText("summary", m.Summary)
}

func checkText(where, text string) error {
	for _, r := range text {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return fmt.Errorf("%w: %s", ErrInvalidCharacter, where)
		}
	}
	return nil
}
