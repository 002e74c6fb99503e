// Package report writes the companion artifacts for a conversion run:
// the rendered XML files, a module manifest in CSV and XLSX form, a
// plain-text README, and a processing summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brunobiangulo/dmforge"
)

const (
	csvName     = "module_list.csv"
	xlsxName    = "module_list.xlsx"
	readmeName  = "README.txt"
	summaryName = "processing_report.txt"
)

// manifestHeader is the column set shared by the CSV and XLSX manifests.
var manifestHeader = []string{"No", "Filename", "Title", "Module Code", "Page Range", "Content Type"}

// Meta describes the conversion a report covers.
type Meta struct {
	Source string // source filename shown in the summary
	Mode   string
	Date   time.Time // zero value means now
}

// Write renders every document and its companion artifacts into dir.
// The directory is created if it does not exist.
func Write(dir string, res *dmforge.Result, meta Meta) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	for _, doc := range res.Documents {
		path := filepath.Join(dir, doc.Manifest.Filename)
		if err := os.WriteFile(path, doc.XML, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", doc.Manifest.Filename, err)
		}
	}

	if err := writeCSV(filepath.Join(dir, csvName), res); err != nil {
		return err
	}
	if err := writeXLSX(filepath.Join(dir, xlsxName), res); err != nil {
		return err
	}
	if err := writeReadme(filepath.Join(dir, readmeName), res, meta); err != nil {
		return err
	}
	return writeSummary(filepath.Join(dir, summaryName), res, meta)
}

func writeCSV(path string, res *dmforge.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(manifestHeader); err != nil {
		f.Close()
		return fmt.Errorf("writing manifest header: %w", err)
	}
	for _, doc := range res.Documents {
		m := doc.Manifest
		row := []string{strconv.Itoa(m.Sequence), m.Filename, m.Title, m.DomainCode, m.PageRange, m.ContentType}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing manifest row %d: %w", m.Sequence, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing manifest: %w", err)
	}
	return f.Close()
}

func writeReadme(path string, res *dmforge.Result, meta Meta) error {
	var b strings.Builder
	b.WriteString("S1000D XML Module List\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Created: %s\n", meta.Date.Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "Total modules: %d\n\n", len(res.Documents))

	b.WriteString("Module details:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, doc := range res.Documents {
		m := doc.Manifest
		fmt.Fprintf(&b, "\n%2d. %s\n", m.Sequence, m.Filename)
		fmt.Fprintf(&b, "    Title: %s\n", m.Title)
		fmt.Fprintf(&b, "    Module code: %s\n", m.DomainCode)
		fmt.Fprintf(&b, "    Page range: %s\n", m.PageRange)
		fmt.Fprintf(&b, "    Content type: %s\n", m.ContentType)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeSummary(path string, res *dmforge.Result, meta Meta) error {
	var b strings.Builder
	b.WriteString("S1000D PROCESSING REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Date: %s\n", meta.Date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Source: %s\n", meta.Source)
	fmt.Fprintf(&b, "Mode: %s\n", meta.Mode)
	fmt.Fprintf(&b, "Pages: %d\n", res.Stats.Pages)
	fmt.Fprintf(&b, "Sections: %d (%d folded into a predecessor)\n", res.Stats.Sections, res.Stats.Merged)
	fmt.Fprintf(&b, "Modules: %d\n", len(res.Documents))
	if len(res.Failed) > 0 {
		fmt.Fprintf(&b, "Failed: %d\n", len(res.Failed))
	}

	b.WriteString("\nMODULES BY CONTENT TYPE\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, line := range rollup(res, func(d dmforge.Document) string { return d.Manifest.ContentType }) {
		b.WriteString(line + "\n")
	}

	b.WriteString("\nMODULES BY DOMAIN\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, line := range rollup(res, func(d dmforge.Document) string { return string(d.Module.Domain) }) {
		b.WriteString(line + "\n")
	}

	b.WriteString("\nMODULE LIST\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, doc := range res.Documents {
		m := doc.Manifest
		fmt.Fprintf(&b, "%2d. %s\n", m.Sequence, truncate(m.Title, 70))
		fmt.Fprintf(&b, "    File: %s | Pages: %s | Type: %s\n", m.Filename, m.PageRange, m.ContentType)
	}

	if len(res.Failed) > 0 {
		b.WriteString("\nFAILED MODULES\n")
		b.WriteString(strings.Repeat("-", 50) + "\n")
		for _, f := range res.Failed {
			fmt.Fprintf(&b, "%2d. %s: %v\n", f.Sequence, f.Filename, f.Err)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// rollup counts documents by the given key and returns sorted "key: n" lines.
func rollup(res *dmforge.Result, key func(dmforge.Document) string) []string {
	counts := map[string]int{}
	for _, doc := range res.Documents {
		counts[key(doc)]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return lines
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
