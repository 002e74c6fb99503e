package classify

import "strings"

// Decision is the outcome of classifying one line.
type Decision struct {
	IsHeading bool
	Domain    Domain
}

// AcceptRule proposes a line as a heading candidate.
type AcceptRule struct {
	Name string
	// Exact marks high-confidence structural forms (numbered chapter
	// prefixes, known top-level headings). Exact candidates skip the
	// shape rejection rules, which exist to filter free-form
	// candidates.
	Exact bool
	Match func(line string) bool
}

// RejectRule overturns a heading candidate. Rejection always wins over
// acceptance.
type RejectRule struct {
	Name string
	// Shape marks rules that reject on line shape alone: length, word
	// count, a trailing page number. Shape rules are skipped for Exact
	// acceptance matches; content rules never are.
	Shape bool
	Match func(line string) bool
}

// RuleSet is an ordered acceptance cascade plus an ordered rejection
// cascade. SmartRules and FullRules are the two production sets.
type RuleSet struct {
	Accept []AcceptRule
	Reject []RejectRule
}

// Classifier decides whether a line of transcript text is a section
// heading, and if so which domain its title maps to. Classify is a pure
// function of the line text.
type Classifier struct {
	rules RuleSet
	vocab Vocabulary
}

// New returns a Classifier using the given rule set and vocabulary.
func New(rules RuleSet, vocab Vocabulary) *Classifier {
	return &Classifier{rules: rules, vocab: vocab}
}

// Classify reports whether line is a section heading. A line must match
// an acceptance rule and survive every applicable rejection rule; any
// rejection overturns the candidate.
func (c *Classifier) Classify(line string) Decision {
	line = strings.TrimSpace(line)
	if line == "" {
		return Decision{}
	}

	var accepted *AcceptRule
	for i := range c.rules.Accept {
		if c.rules.Accept[i].Match(line) {
			accepted = &c.rules.Accept[i]
			break
		}
	}
	if accepted == nil {
		return Decision{}
	}

	for _, r := range c.rules.Reject {
		if r.Shape && accepted.Exact {
			continue
		}
		if r.Match(line) {
			return Decision{}
		}
	}

	return Decision{IsHeading: true, Domain: c.vocab.DomainOf(line)}
}

// Vocabulary returns the classifier's lookup tables.
func (c *Classifier) Vocabulary() Vocabulary {
	return c.vocab
}
