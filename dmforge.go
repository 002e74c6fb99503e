package dmforge

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/brunobiangulo/dmforge/classify"
	"github.com/brunobiangulo/dmforge/enrich"
	"github.com/brunobiangulo/dmforge/extract"
	"github.com/brunobiangulo/dmforge/normalize"
	"github.com/brunobiangulo/dmforge/schema"
	"github.com/brunobiangulo/dmforge/segment"
	"github.com/brunobiangulo/dmforge/synth"
)

// Document is one rendered data module with its manifest record.
type Document struct {
	Manifest synth.Manifest
	Module   synth.Module
	XML      []byte
}

// Stats summarizes one pipeline run.
type Stats struct {
	Lines             int
	Pages             int // highest page number seen in the source
	Sections          int
	Merged            int // sections folded into a predecessor
	Modules           int
	Failed            int
	DroppedParagraphs int
	Elapsed           time.Duration
}

// Result is the outcome of a run. Failed lists the modules whose
// serialization failed; the run continues past them.
type Result struct {
	Documents []Document
	Failed    []ModuleError
	Stats     Stats
}

// Pipeline converts page-tagged manual text into S1000D-style data
// modules. All components are fixed at construction, so a Pipeline can
// be shared across runs.
type Pipeline struct {
	cfg        Config
	classifier *classify.Classifier
	enricher   *enrich.Enricher
	synther    *synth.Synthesizer
	renderer   *schema.Renderer
}

// New builds a Pipeline from cfg. Zero-value fields take the production
// defaults; an invalid mode, width, or date is rejected.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	vocab := classify.DefaultVocabulary()
	for _, h := range cfg.ExtraHeadings {
		vocab.KnownHeadings = append(vocab.KnownHeadings, strings.ToUpper(strings.TrimSpace(h)))
	}

	rules := classify.SmartRules(vocab)
	reason := schema.ReasonSmart
	if cfg.Mode == ModeFull {
		rules = classify.FullRules()
		reason = schema.ReasonFull
	}

	return &Pipeline{
		cfg:        cfg,
		classifier: classify.New(rules, vocab),
		enricher:   enrich.New(enrich.DefaultVocabulary()),
		synther: synth.New(synth.Config{
			IDWidth:   cfg.IDWidth,
			GroupSize: cfg.SubsectionGroupSize,
			Paragraph: normalize.Config{
				MaxParagraphChars:   cfg.MaxParagraphChars,
				SplitThresholdChars: cfg.SplitThresholdChars,
			},
		}, vocab),
		renderer: schema.NewRenderer(schema.Config{
			Date:    cfg.Date,
			Reason:  reason,
			IDWidth: cfg.IDWidth,
		}),
	}, nil
}

// Config returns the resolved configuration the pipeline runs with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// ProcessFile extracts a source file and runs the pipeline on it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	lines, err := extract.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	slog.Info("process: source extracted", "file", filepath.Base(path), "lines", len(lines))
	return p.Process(ctx, lines)
}

// Process converts extracted lines into rendered data modules. Empty
// input and input with no detectable headings are fatal; a module whose
// text cannot be serialized is recorded in Failed and skipped.
func (p *Pipeline) Process(ctx context.Context, lines []extract.Line) (*Result, error) {
	start := time.Now()
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	sections := segment.Assemble(lines, p.classifier)
	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	slog.Info("process: sections assembled", "lines", len(lines), "sections", len(sections))

	merged := sections
	if !p.cfg.SkipMerge {
		merged = segment.MergeShort(sections)
		if folded := len(sections) - len(merged); folded > 0 {
			slog.Info("process: short sections folded", "folded", folded, "sections", len(merged))
		}
	}

	res := &Result{}
	total := len(merged)
	for i, sec := range merged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seq := i + 1

		module, dropped := p.synther.Synthesize(p.enricher.Enrich(sec), seq)
		res.Stats.DroppedParagraphs += dropped
		if dropped > 0 {
			slog.Warn("process: noise paragraphs dropped", "module", seq, "dropped", dropped)
		}

		xml, err := p.renderer.Render(module, total)
		if err != nil {
			slog.Warn("process: module serialization failed",
				"module", seq, "file", module.Filename, "error", err)
			res.Failed = append(res.Failed, ModuleError{Sequence: seq, Filename: module.Filename, Err: err})
			continue
		}

		res.Documents = append(res.Documents, Document{
			Manifest: module.Manifest(),
			Module:   module,
			XML:      xml,
		})
	}

	res.Stats.Lines = len(lines)
	for _, ln := range lines {
		if ln.Page > res.Stats.Pages {
			res.Stats.Pages = ln.Page
		}
	}
	res.Stats.Sections = len(sections)
	res.Stats.Merged = len(sections) - len(merged)
	res.Stats.Modules = len(res.Documents)
	res.Stats.Failed = len(res.Failed)
	res.Stats.Elapsed = time.Since(start)

	slog.Info("process: run complete",
		"modules", res.Stats.Modules, "failed", res.Stats.Failed,
		"dropped_paragraphs", res.Stats.DroppedParagraphs,
		"elapsed", res.Stats.Elapsed.Round(time.Millisecond))
	return res, nil
}
