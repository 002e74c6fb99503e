package enrich

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brunobiangulo/dmforge/normalize"
)

var (
	circaTitlePattern    = regexp.MustCompile(`circa \d{4}`)
	squadronTitlePattern = regexp.MustCompile(`\d+th.*Squadron`)
	serviceBranchPattern = regexp.MustCompile(`USAF|USN|USMC`)
	sectionLabelPattern  = regexp.MustCompile(`Section \d+`)
)

// titleSteps are the contextual rewrite rules applied to every title in
// order. Steps are not mutually exclusive: a later step can re-wrap the
// output of an earlier one.
var titleSteps = []func(string) string{
	rewriteCircaCaption,
	prefixSquadron,
	prefixServiceBranch,
	rewriteModelTitles,
}

// ImproveTitle rewrites a section title into a more descriptive module
// title. Empty or very short titles get a generated "Section NNN" label
// immediately; everything else runs through the rewrite steps and is
// guaranteed to carry a section label on the way out.
func ImproveTitle(title string, seq int) string {
	title = normalize.CleanTitle(title)
	if title == "" {
		return fmt.Sprintf("Section %03d", seq)
	}
	if len(title) < 10 {
		return fmt.Sprintf("Section %03d: %s", seq, title)
	}

	for _, step := range titleSteps {
		title = step(title)
	}

	if !sectionLabelPattern.MatchString(title) {
		title = fmt.Sprintf("Section %03d: %s", seq, title)
	}
	return strings.TrimSpace(title)
}

// rewriteCircaCaption turns a dated photo caption into an image label,
// dropping the date fragment.
func rewriteCircaCaption(title string) string {
	if !circaTitlePattern.MatchString(title) {
		return title
	}
	title = strings.TrimSpace(circaTitlePattern.ReplaceAllString(title, ""))
	return "Aircraft Image: " + title
}

func prefixSquadron(title string) string {
	return squadronTitlePattern.ReplaceAllString(title, "USAF ${0}")
}

func prefixServiceBranch(title string) string {
	if serviceBranchPattern.MatchString(title) {
		return "USAF F-16: " + title
	}
	return title
}

func rewriteModelTitles(title string) string {
	switch {
	case strings.Contains(title, "YF-16"):
		return "YF-16 Prototype: " + title
	case strings.Contains(title, "F-16") && strings.Contains(title, "CONTROL"):
		return "F-16 Control Systems: " + title
	case strings.Contains(title, "AFRICAN") && strings.Contains(title, "OPERATORS"):
		return "F-16 African and Middle Eastern Operators"
	case strings.Contains(title, "BACK COVER"):
		return "F-16 Technical Guide: Back Cover Information"
	}
	return title
}
