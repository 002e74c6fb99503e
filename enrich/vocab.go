package enrich

// ContentType is the coarse classification of a section's textual
// purpose, independent of its domain.
type ContentType string

const (
	Procedure        ContentType = "PROCEDURE"
	Fault            ContentType = "FAULT"
	IllustratedParts ContentType = "ILLUSTRATED_PARTS_DATA"
	Description      ContentType = "DESCRIPTION"
	Maintenance      ContentType = "MAINTENANCE"
	TechnicalData    ContentType = "TECHNICAL_DATA"
	Safety           ContentType = "SAFETY"
	MainHeading      ContentType = "MAIN_HEADING_SECTION"
)

// ContentTypeRule is one priority tier of the content-type cascade.
// Title keywords are checked before body keywords; the first tier with
// any hit wins.
type ContentTypeRule struct {
	Type          ContentType
	TitleKeywords []string
	BodyKeywords  []string
}

// TechnicalTerm is a vocabulary entry the summarizer looks for in body
// text. Fold entries match case-insensitively.
type TechnicalTerm struct {
	Label  string
	Needle string
	Fold   bool
}

// TypeLabel maps lowercased body substrings to the coarse content label
// used in summaries.
type TypeLabel struct {
	Label   string
	Needles []string
}

// Vocabulary is the immutable lookup data the enricher consults. Tests
// can inject alternate vocabularies; production uses DefaultVocabulary.
type Vocabulary struct {
	ContentTypeRules []ContentTypeRule
	GraphicsKeywords []string
	TechnicalTerms   []TechnicalTerm
	TypeLabels       []TypeLabel
}

// DefaultVocabulary returns the production lookup tables for F-16 manual
// processing.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ContentTypeRules: []ContentTypeRule{
			{
				Type:          Procedure,
				TitleKeywords: []string{"PROCEDURE", "STEP", "INSTRUCTION", "MANUAL"},
				BodyKeywords:  []string{"STEP 1", "STEP 2", "FIRST", "THEN", "NEXT", "FINALLY"},
			},
			{
				Type:          Fault,
				TitleKeywords: []string{"FAULT", "ERROR", "TROUBLESHOOT", "MALFUNCTION"},
				BodyKeywords:  []string{"ERROR CODE", "FAULT CODE", "TROUBLESHOOT", "MALFUNCTION"},
			},
			{
				Type:          IllustratedParts,
				TitleKeywords: []string{"PARTS", "COMPONENT", "ASSEMBLY", "SUPPLY"},
				BodyKeywords:  []string{"PART NUMBER", "ITEM NUMBER", "QUANTITY", "REFERENCE"},
			},
			{
				Type:          Description,
				TitleKeywords: []string{"DESCRIPTION", "OVERVIEW", "INTRODUCTION", "SYSTEM"},
				BodyKeywords:  []string{"SYSTEM DESCRIPTION", "OVERVIEW", "INTRODUCTION", "PURPOSE"},
			},
			{
				Type:          Maintenance,
				TitleKeywords: []string{"MAINTENANCE", "SERVICE", "INSPECTION", "REPAIR"},
				BodyKeywords:  []string{"MAINTENANCE", "SERVICE", "INSPECTION", "REPAIR", "SCHEDULE"},
			},
			{
				Type:          TechnicalData,
				TitleKeywords: []string{"SPECIFICATION", "TECHNICAL", "PERFORMANCE", "DATA"},
				BodyKeywords:  []string{"SPECIFICATION", "PERFORMANCE", "TECHNICAL DATA", "CHARACTERISTICS"},
			},
			{
				Type:          Safety,
				TitleKeywords: []string{"SAFETY", "WARNING", "CAUTION", "HAZARD"},
				BodyKeywords:  []string{"WARNING", "CAUTION", "SAFETY", "HAZARD", "DANGER"},
			},
		},
		GraphicsKeywords: []string{
			"FIGURE", "FIG.", "IMAGE", "DIAGRAM", "CHART", "GRAPH", "PICTURE",
		},
		TechnicalTerms: []TechnicalTerm{
			{Label: "F-16", Needle: "F-16"},
			{Label: "USAF", Needle: "USAF"},
			{Label: "Squadron", Needle: "squadron", Fold: true},
			{Label: "Aircraft", Needle: "aircraft", Fold: true},
		},
		TypeLabels: []TypeLabel{
			{Label: "Procedures", Needles: []string{"procedure"}},
			{Label: "Specifications", Needles: []string{"specification"}},
			{Label: "Operators", Needles: []string{"operator"}},
			{Label: "Images", Needles: []string{"image", "photo"}},
		},
	}
}
