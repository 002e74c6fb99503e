package schema

import "encoding/xml"

const (
	nsS1000D = "http://www.s1000d.org/S1000D_4-1"
	nsXSI    = "http://www.w3.org/2001/XMLSchema-instance"
	nsXLink  = "http://www.w3.org/1999/xlink"
)

// Document is the marshaled form of one data module. Field order fixes
// the element order in the output.
type Document struct {
	XMLName xml.Name `xml:"dm"`
	NS      string   `xml:"xmlns,attr"`
	NSXSI   string   `xml:"xmlns:xsi,attr"`
	NSXLink string   `xml:"xmlns:xlink,attr"`
	Status  DMStatus `xml:"dmStatus"`
	Content Content  `xml:"content"`
}

type DMStatus struct {
	Ident  Ident  `xml:"ident"`
	Status Status `xml:"status"`
	Issue  Issue  `xml:"issueInfo"`
}

// Ident carries the data module code fields. Most are fixed for the
// F-16 manual line; subSystem and subSystemCode vary per module.
type Ident struct {
	Model              string `xml:"model,attr"`
	System             string `xml:"system,attr"`
	SystemCode         string `xml:"systemCode,attr"`
	SubSystem          string `xml:"subSystem,attr"`
	SubSystemCode      string `xml:"subSystemCode,attr"`
	Assy               string `xml:"assy,attr"`
	AssyCode           string `xml:"assyCode,attr"`
	Disassy            string `xml:"disassy,attr"`
	DisassyCode        string `xml:"disassyCode,attr"`
	DisassyCodeVariant string `xml:"disassyCodeVariant,attr"`
	InfoCode           string `xml:"infoCode,attr"`
	InfoCodeVariant    string `xml:"infoCodeVariant,attr"`
	ItemLocationCode   string `xml:"itemLocationCode,attr"`
	LearnCode          string `xml:"learnCode,attr"`
	LearnEventCode     string `xml:"learnEventCode,attr"`
	Item               string `xml:"item,attr"`
	ItemCode           string `xml:"itemCode,attr"`
	ItemCodeVariant    string `xml:"itemCodeVariant,attr"`
}

type Status struct {
	Work   string `xml:"work,attr"`
	Date   string `xml:"date,attr"`
	Reason string `xml:"reason,attr"`
}

type Issue struct {
	Number   string `xml:"issueNumber,attr"`
	Date     string `xml:"issueDate,attr"`
	InWork   string `xml:"inWork,attr"`
	Released string `xml:"released,attr"`
}

type Content struct {
	Description Description `xml:"description"`
}

// Description holds the module body. Paragraphs and Subsections are
// mutually exclusive; the applicability block and module info trailer
// always follow the body.
type Description struct {
	Title       string       `xml:"title"`
	Paragraphs  []string     `xml:"para,omitempty"`
	Subsections []Subsection `xml:"subSection,omitempty"`
	Applic      Applic       `xml:"applic"`
	Info        ModuleInfo   `xml:"moduleInfo"`
}

type Subsection struct {
	ID         string   `xml:"id,attr"`
	Title      string   `xml:"title"`
	Paragraphs []string `xml:"para"`
}

type Applic struct {
	PropertyIdent string        `xml:"applicPropertyIdent,attr"`
	PropertyValue string        `xml:"applicPropertyValue,attr"`
	Applicability Applicability `xml:"applicability"`
}

type Applicability struct {
	Assert Assert `xml:"applicAssert"`
}

type Assert struct {
	PropertyIdent string `xml:"applicPropertyIdent,attr"`
	PropertyValue string `xml:"applicPropertyValue,attr"`
}

// ModuleInfo is the per-module metadata trailer. All values are
// preformatted strings so the attribute text is exactly what was
// computed upstream.
type ModuleInfo struct {
	ModuleNumber   string `xml:"moduleNumber,attr"`
	TotalModules   string `xml:"totalModules,attr"`
	SourcePage     string `xml:"sourcePage,attr"`
	ContentType    string `xml:"contentType,attr"`
	Applicability  string `xml:"applicability,attr"`
	HasGraphics    string `xml:"hasGraphics,attr"`
	ContentSummary string `xml:"contentSummary,attr"`
}
