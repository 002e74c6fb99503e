package segment

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// MergeShort
// ---------------------------------------------------------------------------

func TestMergeShortFoldsSubPageSection(t *testing.T) {
	sections := []Section{
		{Title: "CHAPTER 1", BodyLines: []string{"alpha", "beta"}, StartPage: 1, EndPage: 2},
		{Title: "STRAY CAPTION HEADING", BodyLines: []string{"gamma"}, StartPage: 3, EndPage: 3},
		{Title: "CHAPTER 2", BodyLines: []string{"delta"}, StartPage: 4, EndPage: 5},
	}

	merged := MergeShort(sections)
	if len(merged) != 2 {
		t.Fatalf("expected 2 sections after merge, got %d", len(merged))
	}

	wantBody := []string{"alpha", "beta", "", "STRAY CAPTION HEADING", "gamma"}
	if !reflect.DeepEqual(merged[0].BodyLines, wantBody) {
		t.Errorf("merged body = %v, want %v", merged[0].BodyLines, wantBody)
	}
	if merged[0].EndPage != 3 {
		t.Errorf("merged EndPage = %d, want 3", merged[0].EndPage)
	}
	if merged[0].Title != "CHAPTER 1" {
		t.Errorf("merged Title = %q, want the absorbing section's title", merged[0].Title)
	}
	if merged[1].Title != "CHAPTER 2" {
		t.Errorf("second section = %q, want %q", merged[1].Title, "CHAPTER 2")
	}
}

func TestMergeShortChainCollapses(t *testing.T) {
	sections := []Section{
		{Title: "A", BodyLines: []string{"a1"}, StartPage: 1, EndPage: 2},
		{Title: "B", BodyLines: []string{"b1"}, StartPage: 3, EndPage: 3},
		{Title: "C", BodyLines: []string{"c1"}, StartPage: 3, EndPage: 3},
		{Title: "D", BodyLines: []string{"d1"}, StartPage: 4, EndPage: 6},
	}

	merged := MergeShort(sections)
	if len(merged) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(merged))
	}

	wantBody := []string{"a1", "", "B", "b1", "", "C", "c1"}
	if !reflect.DeepEqual(merged[0].BodyLines, wantBody) {
		t.Errorf("merged body = %v, want %v", merged[0].BodyLines, wantBody)
	}
	if merged[0].StartPage != 1 || merged[0].EndPage != 3 {
		t.Errorf("merged pages = %d-%d, want 1-3", merged[0].StartPage, merged[0].EndPage)
	}
}

func TestMergeShortFirstSectionNeverAbsorbed(t *testing.T) {
	sections := []Section{
		{Title: "SHORT OPENER", BodyLines: []string{"s1"}, StartPage: 1, EndPage: 1},
		{Title: "CHAPTER 1", BodyLines: []string{"c1"}, StartPage: 2, EndPage: 4},
	}

	merged := MergeShort(sections)
	if len(merged) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(merged))
	}
	if merged[0].Title != "SHORT OPENER" {
		t.Errorf("first section = %q, want it kept standalone", merged[0].Title)
	}
}

func TestMergeShortIdempotent(t *testing.T) {
	sections := []Section{
		{Title: "A", BodyLines: []string{"a1"}, StartPage: 1, EndPage: 2},
		{Title: "B", BodyLines: []string{"b1"}, StartPage: 3, EndPage: 3},
		{Title: "C", BodyLines: []string{"c1"}, StartPage: 4, EndPage: 7},
		{Title: "D", BodyLines: []string{"d1"}, StartPage: 8, EndPage: 8},
	}

	once := MergeShort(sections)
	twice := MergeShort(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed the result:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeShortDeterministic(t *testing.T) {
	sections := []Section{
		{Title: "A", BodyLines: []string{"a1", "a2"}, StartPage: 1, EndPage: 2},
		{Title: "B", BodyLines: []string{"b1"}, StartPage: 3, EndPage: 3},
	}

	first := MergeShort(sections)
	second := MergeShort(sections)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated merge over the same input diverged:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(sections[0].BodyLines, []string{"a1", "a2"}) {
		t.Errorf("input mutated: %v", sections[0].BodyLines)
	}
}

func TestMergeShortConservesBodyLines(t *testing.T) {
	sections := []Section{
		{Title: "A", BodyLines: []string{"a1", "a2"}, StartPage: 1, EndPage: 2},
		{Title: "B", BodyLines: []string{"b1", "b2"}, StartPage: 3, EndPage: 3},
		{Title: "C", BodyLines: []string{"c1"}, StartPage: 4, EndPage: 4},
		{Title: "D", BodyLines: []string{"d1"}, StartPage: 5, EndPage: 9},
	}

	var before []string
	for _, s := range sections {
		before = append(before, s.BodyLines...)
	}

	var after []string
	for _, s := range MergeShort(sections) {
		after = append(after, s.BodyLines...)
	}

	if !containsInOrder(after, before) {
		t.Errorf("pre-merge body lines missing or reordered:\nbefore: %v\nafter:  %v", before, after)
	}
}

func TestMergeShortDegenerate(t *testing.T) {
	if got := MergeShort(nil); len(got) != 0 {
		t.Errorf("MergeShort(nil) = %v, want empty", got)
	}

	single := []Section{{Title: "ONLY", BodyLines: []string{"x"}, StartPage: 1, EndPage: 1}}
	if got := MergeShort(single); !reflect.DeepEqual(got, single) {
		t.Errorf("single section should pass through, got %+v", got)
	}
}

// containsInOrder reports whether want appears as a subsequence of have.
func containsInOrder(have, want []string) bool {
	i := 0
	for _, h := range have {
		if i < len(want) && h == want[i] {
			i++
		}
	}
	return i == len(want)
}
