package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Line is one line of source text tagged with the page it came from.
type Line struct {
	Page int
	Text string
}

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("extract: unsupported file format")

// ReadFile extracts page-tagged lines from path, dispatching on the file
// extension. PDF files go through the native extractor; text files are
// expected to carry [PAGE_N] markers.
func ReadFile(ctx context.Context, path string) ([]Line, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ReadPDF(ctx, path)
	case ".txt", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading text file: %w", err)
		}
		return ParseMarked(string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
