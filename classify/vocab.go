package classify

import "strings"

// Domain is one of the fixed subject-matter categories assigned to a
// section from its heading text.
type Domain string

const (
	FlightControl Domain = "FLIGHT_CONTROL"
	EngineSystem  Domain = "ENGINE_SYSTEM"
	WeaponsSystem Domain = "WEAPONS_SYSTEM"
	Avionics      Domain = "AVIONICS"
	Maintenance   Domain = "MAINTENANCE"
	Safety        Domain = "SAFETY"
	Electrical    Domain = "ELECTRICAL"
	Hydraulic     Domain = "HYDRAULIC"
	Fuel          Domain = "FUEL"
	Landing       Domain = "LANDING"
	Cockpit       Domain = "COCKPIT"
	Radar         Domain = "RADAR"
	Navigation    Domain = "NAVIGATION"
	Communication Domain = "COMMUNICATION"
	Emergency     Domain = "EMERGENCY"
	General       Domain = "GENERAL"
)

// DomainRule maps heading keywords to a domain. Rules are evaluated in
// order; the first rule with any keyword present in the uppercased title
// wins.
type DomainRule struct {
	Keywords []string
	Domain   Domain
}

// Vocabulary is the immutable lookup data the classifier consults. Tests
// can inject alternate vocabularies; production uses DefaultVocabulary.
type Vocabulary struct {
	// KnownHeadings are exact top-level manual headings, matched
	// whole-string and case-insensitively.
	KnownHeadings []string

	// DomainRules is the ordered keyword -> domain table.
	DomainRules []DomainRule

	// DomainCodes maps each domain to its data module code.
	DomainCodes map[Domain]string
}

// DomainOf derives the domain for a heading by scanning the ordered
// keyword table. Unmatched headings fall through to General.
func (v Vocabulary) DomainOf(title string) Domain {
	upper := strings.ToUpper(title)
	for _, rule := range v.DomainRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(upper, kw) {
				return rule.Domain
			}
		}
	}
	return General
}

// CodeOf returns the module code for a domain, defaulting to the General
// code for unknown domains.
func (v Vocabulary) CodeOf(d Domain) string {
	if code, ok := v.DomainCodes[d]; ok {
		return code
	}
	return v.DomainCodes[General]
}

// DefaultVocabulary returns the production lookup tables for F-16 manual
// processing.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		KnownHeadings: []string{
			"INTRODUCTION TO THE F-16 FIGHTING FALCON",
			"OVERVIEW OF F-16 SYSTEMS",
			"GENERAL INFORMATION",
			"SYSTEM DESCRIPTION",
			"TECHNICAL SPECIFICATIONS",
			"MAINTENANCE PROCEDURES",
			"TROUBLESHOOTING GUIDE",
			"APPENDICES",
			"TECHNICAL DATA",
			"PERFORMANCE DATA",
			"SAFETY PROCEDURES",
			"OPERATIONAL PROCEDURES",
		},
		DomainRules: []DomainRule{
			{Keywords: []string{"FLIGHT", "CONTROL", "DIGITAL"}, Domain: FlightControl},
			{Keywords: []string{"ENGINE", "POWER", "TURBINE"}, Domain: EngineSystem},
			{Keywords: []string{"WEAPON", "MISSILE", "BOMB"}, Domain: WeaponsSystem},
			{Keywords: []string{"AVIONICS", "COMPUTER", "SOFTWARE"}, Domain: Avionics},
			{Keywords: []string{"ELECTRICAL", "ELECTRIC"}, Domain: Electrical},
			{Keywords: []string{"HYDRAULIC"}, Domain: Hydraulic},
			{Keywords: []string{"FUEL"}, Domain: Fuel},
			{Keywords: []string{"LANDING", "GEAR"}, Domain: Landing},
			{Keywords: []string{"COCKPIT", "INSTRUMENT"}, Domain: Cockpit},
			{Keywords: []string{"RADAR"}, Domain: Radar},
			{Keywords: []string{"NAVIGATION", "GPS"}, Domain: Navigation},
			{Keywords: []string{"COMMUNICATION", "RADIO"}, Domain: Communication},
			{Keywords: []string{"SAFETY", "EMERGENCY"}, Domain: Safety},
			{Keywords: []string{"MAINTENANCE", "SERVICE", "REPAIR"}, Domain: Maintenance},
		},
		DomainCodes: map[Domain]string{
			FlightControl: "DMC-FC001",
			EngineSystem:  "DMC-ES002",
			WeaponsSystem: "DMC-WS003",
			Avionics:      "DMC-AV004",
			Maintenance:   "DMC-MT005",
			Safety:        "DMC-SF006",
			Electrical:    "DMC-EL007",
			Hydraulic:     "DMC-HY008",
			Fuel:          "DMC-FL009",
			Landing:       "DMC-LG010",
			Cockpit:       "DMC-CP011",
			Radar:         "DMC-RD012",
			Navigation:    "DMC-NV013",
			Communication: "DMC-CM014",
			Emergency:     "DMC-EM015",
			General:       "DMC-GN016",
		},
	}
}
