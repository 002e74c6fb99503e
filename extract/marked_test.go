package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// ParseMarked / WriteMarked
// ---------------------------------------------------------------------------

func TestParseMarked(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Line
	}{
		{
			name: "pages_advance_with_markers",
			text: "[PAGE_1]\nCHAPTER 1\nBody text here.\n\n[PAGE_2]\nMore body.\n",
			want: []Line{
				{Page: 1, Text: "CHAPTER 1"},
				{Page: 1, Text: "Body text here."},
				{Page: 2, Text: "More body."},
			},
		},
		{
			name: "text_before_first_marker_is_page_one",
			text: "Cover line\n[PAGE_3]\nDeep page line\n",
			want: []Line{
				{Page: 1, Text: "Cover line"},
				{Page: 3, Text: "Deep page line"},
			},
		},
		{
			name: "malformed_marker_is_content",
			text: "[PAGE_X]\nreal line\n",
			want: []Line{
				{Page: 1, Text: "[PAGE_X]"},
				{Page: 1, Text: "real line"},
			},
		},
		{
			name: "blank_only",
			text: "\n\n   \n",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarked(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteMarkedRoundTrip(t *testing.T) {
	lines := []Line{
		{Page: 1, Text: "CHAPTER 1"},
		{Page: 1, Text: "Opening paragraph line."},
		{Page: 2, Text: "Second page line."},
		{Page: 2, Text: "Another second page line."},
		{Page: 5, Text: "Line after a page gap."},
	}

	got := ParseMarked(WriteMarked(lines))
	if !reflect.DeepEqual(got, lines) {
		t.Errorf("round trip = %v, want %v", got, lines)
	}
}

func TestWriteMarkedEmitsMarkerPerPageChange(t *testing.T) {
	text := WriteMarked([]Line{
		{Page: 1, Text: "one"},
		{Page: 1, Text: "two"},
		{Page: 2, Text: "three"},
	})
	want := "[PAGE_1]\none\ntwo\n[PAGE_2]\nthree\n"
	if text != want {
		t.Errorf("WriteMarked() = %q, want %q", text, want)
	}
}

// ---------------------------------------------------------------------------
// ReadFile dispatch
// ---------------------------------------------------------------------------

func TestReadFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manual.txt")
	content := "[PAGE_1]\nCHAPTER 1\nBody line.\n[PAGE_2]\nNext page line.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}
	want := []Line{
		{Page: 1, Text: "CHAPTER 1"},
		{Page: 1, Text: "Body line."},
		{Page: 2, Text: "Next page line."},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("ReadFile() = %v, want %v", lines, want)
	}
}

func TestReadFileUnsupported(t *testing.T) {
	_, err := ReadFile(context.Background(), "manual.docx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ReadFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadFileMissingText(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}
