package segment

// MergeShort folds every section spanning less than one full page into
// the section before it. The absorbed section's title joins the body
// after a blank separator line, so downstream paragraph grouping keeps
// it as its own paragraph. The pass is single and left associative: a
// run of short sections all collapse into the nearest prior full
// section. The first section has no predecessor and is never absorbed.
func MergeShort(sections []Section) []Section {
	if len(sections) < 2 {
		return sections
	}

	merged := make([]Section, 0, len(sections))
	cur := sections[0]

	for _, sec := range sections[1:] {
		if sec.EndPage-sec.StartPage < 1 {
			body := make([]string, 0, len(cur.BodyLines)+len(sec.BodyLines)+2)
			body = append(body, cur.BodyLines...)
			body = append(body, "", sec.Title)
			body = append(body, sec.BodyLines...)
			cur.BodyLines = body
			if sec.EndPage > cur.EndPage {
				cur.EndPage = sec.EndPage
			}
			continue
		}
		merged = append(merged, cur)
		cur = sec
	}

	return append(merged, cur)
}
