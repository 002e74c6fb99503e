package dmforge

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Processing modes. Smart keeps only main headings and writes 3-digit
// module numbers; full accepts every heading-like line and widens the
// numbers to 5 digits.
const (
	ModeSmart = "smart"
	ModeFull  = "full"
)

// Config holds all configuration for the conversion pipeline.
type Config struct {
	// Mode selects the heading rule set: "smart" (default) or "full".
	Mode string `json:"mode" yaml:"mode"`

	// IDWidth is the zero-padding width of module numbers and file
	// names. If zero it follows the mode: 3 for smart, 5 for full.
	IDWidth int `json:"id_width" yaml:"id_width"`

	// SkipMerge keeps sub-page sections standalone instead of folding
	// them into their predecessor.
	SkipMerge bool `json:"skip_merge" yaml:"skip_merge"`

	// Paragraph assembly thresholds, in characters.
	MaxParagraphChars   int `json:"max_paragraph_chars" yaml:"max_paragraph_chars"`
	SplitThresholdChars int `json:"split_threshold_chars" yaml:"split_threshold_chars"`

	// SubsectionGroupSize is the paragraphs-per-group count used once a
	// module's body outgrows plain paragraphs.
	SubsectionGroupSize int `json:"subsection_group_size" yaml:"subsection_group_size"`

	// Date stamps every document's status and issue info, YYYY-MM-DD.
	// Empty means the current day.
	Date string `json:"date" yaml:"date"`

	// ExtraHeadings extends the known main heading list consulted by
	// the classifier, matched whole-line and case-insensitively.
	ExtraHeadings []string `json:"extra_headings" yaml:"extra_headings"`
}

// DefaultConfig returns the settings used for the production F-16
// manual conversion.
func DefaultConfig() Config {
	return Config{
		Mode:                ModeSmart,
		MaxParagraphChars:   300,
		SplitThresholdChars: 500,
		SubsectionGroupSize: 4,
	}
}

// Load reads a YAML config file applied over the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.IDWidth == 0 {
		if c.Mode == ModeFull {
			c.IDWidth = 5
		} else {
			c.IDWidth = 3
		}
	}
	if c.MaxParagraphChars == 0 {
		c.MaxParagraphChars = def.MaxParagraphChars
	}
	if c.SplitThresholdChars == 0 {
		c.SplitThresholdChars = def.SplitThresholdChars
	}
	if c.SubsectionGroupSize == 0 {
		c.SubsectionGroupSize = def.SubsectionGroupSize
	}
	return c
}

func (c Config) validate() error {
	switch c.Mode {
	case "", ModeSmart, ModeFull:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.IDWidth < 0 || c.IDWidth > 9 {
		return fmt.Errorf("%w: id width %d out of range", ErrInvalidConfig, c.IDWidth)
	}
	if c.MaxParagraphChars < 0 || c.SplitThresholdChars < 0 || c.SubsectionGroupSize < 0 {
		return fmt.Errorf("%w: negative size limit", ErrInvalidConfig)
	}
	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidConfig, c.Date)
		}
	}
	return nil
}
