package classify

import "testing"

func newSmart() *Classifier {
	v := DefaultVocabulary()
	return New(SmartRules(v), v)
}

// ---------------------------------------------------------------------------
// Smart rule set
// ---------------------------------------------------------------------------

func TestClassifySmartAccepts(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"chapter_prefix", "CHAPTER 1", true},
		{"chapter_mixed_case", "Chapter 12", true},
		{"section_prefix", "SECTION 3 HYDRAULIC SYSTEM", true},
		{"part_prefix", "PART 2", true},
		{"case_prefix", "CASE 4", true},
		{"known_heading", "GENERAL INFORMATION", true},
		{"known_heading_mixed_case", "Technical Specifications", true},
		{"known_heading_short", "APPENDICES", true},
		{"caps_window", "AIR COMBAT TRAINING AND TACTICS GUIDE", true},
		{"body_sentence", "The aircraft entered service with several air arms.", false},
		{"lowercase_line", "hydraulic reservoir servicing", false},
		{"empty", "", false},
		{"whitespace_only", "   ", false},
		{"short_caps", "FUEL SYSTEM", false},
	}

	c := newSmart()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.line)
			if got.IsHeading != tt.want {
				t.Errorf("Classify(%q).IsHeading = %v, want %v", tt.line, got.IsHeading, tt.want)
			}
		})
	}
}

func TestClassifyRejectOverAccept(t *testing.T) {
	// Each line matches an acceptance rule but a rejection rule must
	// overturn it.
	tests := []struct {
		name string
		line string
	}{
		// caps-window hit, but contains a photo-caption keyword.
		{"photo_caption", "OFFICIAL PHOTOGRAPH COLLECTION NOTES"},
		// numbered-caps hit, but 46 chars exceeds the length cap.
		{"numbered_too_long", "1. FLIGHT CONTROL SYSTEM DESCRIPTION AND NOTES"},
		// caps-window hit, but repeated words betray running text.
		{"repeated_words", "THE SYSTEM AND THE SYSTEM AND SYSTEM"},
		// caps-window hit, but a parenthesized code marks a caption.
		{"paren_code", "LEADING EDGE FLAP ACTUATOR (LEF) DATA"},
		// known heading shadowed by the front-matter content rule.
		{"front_matter", "INTRODUCTION TO THE F-16 FIGHTING FALCON"},
		// caps-window hit, but measurement content.
		{"measurement", "COMBAT THRUST RATING 23770LB AFTERBURN"},
		// caps-window hit, but operator keywords.
		{"operator", "ROYAL NETHERLANDS AIR FORCE DELIVERIES"},
	}

	c := newSmart()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.line)
			if got.IsHeading {
				t.Errorf("Classify(%q).IsHeading = true, want rejection to win", tt.line)
			}
		})
	}
}

func TestClassifyExactSkipsShapeRules(t *testing.T) {
	c := newSmart()

	// "CHAPTER 1" is 9 chars, 2 words, ends in a digit: every shape rule
	// would fire, but the structural prefix is exact.
	if !c.Classify("CHAPTER 1").IsHeading {
		t.Error("CHAPTER 1 should survive the shape rejection rules")
	}

	// Known headings are likewise exempt from length filtering.
	if !c.Classify("TECHNICAL DATA").IsHeading {
		t.Error("known heading TECHNICAL DATA should survive the shape rules")
	}

	// Free-form candidates are not exempt: a trailing page number kills
	// an otherwise valid caps-window line.
	if c.Classify("AIR COMBAT TRAINING AND TACTICS GUIDE 23").IsHeading {
		t.Error("trailing page reference should reject a free-form candidate")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := newSmart()
	lines := []string{
		"CHAPTER 1",
		"GENERAL INFORMATION",
		"The aircraft entered service in 1979.",
		"AIR COMBAT TRAINING AND TACTICS GUIDE",
	}
	for _, line := range lines {
		first := c.Classify(line)
		second := c.Classify(line)
		if first != second {
			t.Errorf("Classify(%q) not deterministic: %+v then %+v", line, first, second)
		}
	}
}

func TestClassifyDomain(t *testing.T) {
	tests := []struct {
		line string
		want Domain
	}{
		{"SECTION 3 HYDRAULIC SYSTEM", Hydraulic},
		{"CHAPTER 2 ENGINE AND TURBINE NOTES", EngineSystem},
		{"MAINTENANCE PROCEDURES", Maintenance},
		{"GENERAL INFORMATION", General},
	}

	c := newSmart()
	for _, tt := range tests {
		got := c.Classify(tt.line)
		if !got.IsHeading {
			t.Fatalf("Classify(%q).IsHeading = false, want heading", tt.line)
		}
		if got.Domain != tt.want {
			t.Errorf("Classify(%q).Domain = %q, want %q", tt.line, got.Domain, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Full rule set
// ---------------------------------------------------------------------------

func TestClassifyFullAccepts(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"short_caps", "FUEL", true},
		{"numbered", "1. Overview", true},
		{"keyword", "Landing gear retraction sequence details.", true},
		{"title_case", "Delivery Schedule Overview", true},
		{"paren_code", "Radar upgrade kit (AN-APG-68)", true},
		{"length_window", "a line of middling length without a stop", true},
		{"plain_sentence", "The aircraft was delivered.", false},
		{"empty", "", false},
	}

	v := DefaultVocabulary()
	c := New(FullRules(), v)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.line)
			if got.IsHeading != tt.want {
				t.Errorf("Classify(%q).IsHeading = %v, want %v", tt.line, got.IsHeading, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Vocabulary
// ---------------------------------------------------------------------------

func TestDomainOf(t *testing.T) {
	v := DefaultVocabulary()
	tests := []struct {
		title string
		want  Domain
	}{
		{"FLIGHT CONTROL COMPUTER", FlightControl}, // first rule wins over AVIONICS
		{"ENGINE STARTING PROCEDURE", EngineSystem},
		{"EMERGENCY EGRESS", Safety}, // emergency keyword maps to safety
		{"RADIO FREQUENCIES", Communication},
		{"completely unrelated", General},
		{"", General},
	}

	for _, tt := range tests {
		if got := v.DomainOf(tt.title); got != tt.want {
			t.Errorf("DomainOf(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	v := DefaultVocabulary()
	if got := v.CodeOf(FlightControl); got != "DMC-FC001" {
		t.Errorf("CodeOf(FlightControl) = %q, want %q", got, "DMC-FC001")
	}
	if got := v.CodeOf(General); got != "DMC-GN016" {
		t.Errorf("CodeOf(General) = %q, want %q", got, "DMC-GN016")
	}
	if got := v.CodeOf(Domain("NOPE")); got != "DMC-GN016" {
		t.Errorf("CodeOf(unknown) = %q, want the General code", got)
	}
}

func TestVocabularyInjection(t *testing.T) {
	v := Vocabulary{
		KnownHeadings: []string{"COOLANT LOOP SERVICING"},
		DomainRules: []DomainRule{
			{Keywords: []string{"COOLANT"}, Domain: Hydraulic},
		},
		DomainCodes: map[Domain]string{
			Hydraulic: "DMC-HY008",
			General:   "DMC-GN016",
		},
	}
	c := New(SmartRules(v), v)

	got := c.Classify("COOLANT LOOP SERVICING")
	if !got.IsHeading {
		t.Fatal("injected known heading should classify as a heading")
	}
	if got.Domain != Hydraulic {
		t.Errorf("Domain = %q, want %q", got.Domain, Hydraulic)
	}

	// The default known headings are absent from the injected vocabulary.
	if c.Classify("GENERAL INFORMATION").IsHeading {
		t.Error("default known heading should not match with injected vocabulary")
	}
}
