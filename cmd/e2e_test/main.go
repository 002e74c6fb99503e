// Command e2e_test converts a real manual end to end: pipeline, report
// artifacts and registry. It prints the stored manifest as JSON so the
// result can be diffed between revisions.
//
//	go run ./cmd/e2e_test -mode smart f16_manual.txt
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/brunobiangulo/dmforge"
	"github.com/brunobiangulo/dmforge/report"
	"github.com/brunobiangulo/dmforge/store"
)

func main() {
	mode := flag.String("mode", "smart", "heading rule set: smart or full")
	keep := flag.Bool("keep", false, "keep the output directory")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: e2e_test [-mode smart|full] [-keep] <manual.txt|manual.pdf>")
		os.Exit(1)
	}
	source := flag.Arg(0)

	tmpDir, err := os.MkdirTemp("", "dmforge-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating temp dir: %v\n", err)
		os.Exit(1)
	}
	if !*keep {
		defer os.RemoveAll(tmpDir)
	}
	outDir := filepath.Join(tmpDir, "modules")

	cfg := dmforge.DefaultConfig()
	cfg.Mode = *mode

	pipeline, err := dmforge.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building pipeline: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n=== CONVERTING %s ===\n", source)
	start := time.Now()
	res, err := pipeline.ProcessFile(ctx, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conversion error: %v\n", err)
		os.Exit(1)
	}
	stats := res.Stats
	fmt.Fprintf(os.Stderr, "lines=%d pages=%d sections=%d merged=%d modules=%d failed=%d elapsed=%s\n",
		stats.Lines, stats.Pages, stats.Sections, stats.Merged, stats.Modules, stats.Failed,
		time.Since(start).Round(time.Millisecond))

	meta := report.Meta{Source: filepath.Base(source), Mode: pipeline.Config().Mode}
	if err := report.Write(outDir, res, meta); err != nil {
		fmt.Fprintf(os.Stderr, "writing output: %v\n", err)
		os.Exit(1)
	}

	st, err := store.New(filepath.Join(tmpDir, "runs.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	id := uuid.NewString()
	fmt.Fprintf(os.Stderr, "\n=== RECORDING RUN %s ===\n", id)
	if err := st.CreateRun(ctx, store.Run{
		ID:        id,
		Source:    filepath.Base(source),
		Mode:      pipeline.Config().Mode,
		IDWidth:   pipeline.Config().IDWidth,
		OutputDir: outDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "creating run: %v\n", err)
		os.Exit(1)
	}

	rows := make([]store.Module, 0, len(res.Documents))
	for _, doc := range res.Documents {
		rows = append(rows, store.NewModule(id, doc.Module))
	}
	if err := st.InsertModules(ctx, id, rows); err != nil {
		fmt.Fprintf(os.Stderr, "inserting modules: %v\n", err)
		os.Exit(1)
	}
	if err := st.FinishRun(ctx, id, stats.Pages, stats.Sections, stats.Modules, stats.Failed); err != nil {
		fmt.Fprintf(os.Stderr, "finishing run: %v\n", err)
		os.Exit(1)
	}

	// Read the manifest back through the registry so the output reflects
	// what a client of the store would see.
	stored, err := st.ListModules(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "listing modules: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(stored, "", "  ")
	fmt.Println(string(out))

	if *keep {
		fmt.Fprintf(os.Stderr, "\noutput kept at %s\n", tmpDir)
	}
}
