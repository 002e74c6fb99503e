// Command batch converts every manual in a directory and reports the
// aggregate results. It exists to spot regressions when the heading
// rules change: run it against the same corpus before and after and
// diff results.json.
//
//	go run ./cmd/batch --input ./manuals --modes smart,full
//
// Each invocation writes its artifacts under batch/runs/<timestamp>/:
// per-manual module directories, metadata.json, batch.log and
// results.json.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brunobiangulo/dmforge"
	"github.com/brunobiangulo/dmforge/report"
	"github.com/brunobiangulo/dmforge/store"
)

// result is one manual converted in one mode.
type result struct {
	File     string `json:"file"`
	Mode     string `json:"mode"`
	RunID    string `json:"run_id,omitempty"`
	Pages    int    `json:"pages"`
	Sections int    `json:"sections"`
	Merged   int    `json:"merged"`
	Modules  int    `json:"modules"`
	Failed   int    `json:"failed"`
	Elapsed  string `json:"elapsed,omitempty"`
	Error    string `json:"error,omitempty"`
}

func main() {
	var (
		inputDir   = flag.String("input", "", "Directory of manuals to convert (.txt, .pdf)")
		configPath = flag.String("config", "", "YAML config file applied to every conversion")
		modes      = flag.String("modes", "smart", "Comma-separated rule sets to run: smart, full")
		dbPath     = flag.String("db", "", "SQLite registry (default: inside the run directory)")
	)
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("--input flag is required")
	}
	modeList := strings.Split(*modes, ",")

	runDir := createRunDir()
	fmt.Fprintf(os.Stderr, "Run directory: %s\n", runDir)

	logFile := setupLogTee(runDir)
	defer logFile.Close()

	db := *dbPath
	if db == "" {
		db = filepath.Join(runDir, "dmforge.db")
	}
	st, err := store.New(db)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	baseCfg := dmforge.DefaultConfig()
	if *configPath != "" {
		baseCfg, err = dmforge.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	meta := map[string]interface{}{
		"git_commit": gitCommit(),
		"go_version": runtime.Version(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"input_dir":  *inputDir,
		"modes":      modeList,
		"db":         db,
	}
	writeJSON(filepath.Join(runDir, "metadata.json"), meta)

	manuals, err := collectManuals(*inputDir)
	if err != nil {
		log.Fatalf("scanning input directory: %v", err)
	}
	if len(manuals) == 0 {
		log.Fatalf("no .txt or .pdf manuals under %s", *inputDir)
	}
	fmt.Fprintf(os.Stderr, "Found %d manuals\n", len(manuals))

	ctx := context.Background()
	totalStart := time.Now()

	var results []result
	for _, path := range manuals {
		for _, mode := range modeList {
			mode = strings.TrimSpace(mode)
			fmt.Fprintf(os.Stderr, "\nConverting %s (mode: %s)...\n", filepath.Base(path), mode)
			results = append(results, convertOne(ctx, st, runDir, path, mode, baseCfg))
		}
	}

	meta["total_elapsed"] = time.Since(totalStart).Round(time.Millisecond).String()
	writeJSON(filepath.Join(runDir, "metadata.json"), meta)

	resultsPath := filepath.Join(runDir, "results.json")
	writeJSON(resultsPath, results)
	fmt.Fprintf(os.Stderr, "Results written to: %s\n", resultsPath)

	printSummary(results)
	fmt.Fprintf(os.Stderr, "\nRun directory: %s\n", runDir)
}

func convertOne(ctx context.Context, st *store.Store, runDir, path, mode string, cfg dmforge.Config) result {
	res := result{File: filepath.Base(path), Mode: mode}

	cfg.Mode = mode
	cfg.IDWidth = 0 // follow the mode
	pipeline, err := dmforge.New(cfg)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	id := uuid.NewString()
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := filepath.Join(runDir, "modules", mode, base)

	if err := st.CreateRun(ctx, store.Run{
		ID:        id,
		Source:    filepath.Base(path),
		Mode:      mode,
		IDWidth:   pipeline.Config().IDWidth,
		OutputDir: outDir,
	}); err != nil {
		res.Error = err.Error()
		return res
	}
	res.RunID = id

	start := time.Now()
	out, err := pipeline.ProcessFile(ctx, path)
	if err != nil {
		failRun(ctx, st, id, err)
		res.Error = err.Error()
		return res
	}
	res.Elapsed = time.Since(start).Round(time.Millisecond).String()

	if err := report.Write(outDir, out, report.Meta{Source: filepath.Base(path), Mode: mode}); err != nil {
		failRun(ctx, st, id, err)
		res.Error = err.Error()
		return res
	}

	rows := make([]store.Module, 0, len(out.Documents))
	for _, doc := range out.Documents {
		rows = append(rows, store.NewModule(id, doc.Module))
	}
	if err := st.InsertModules(ctx, id, rows); err != nil {
		failRun(ctx, st, id, err)
		res.Error = err.Error()
		return res
	}

	stats := out.Stats
	if err := st.FinishRun(ctx, id, stats.Pages, stats.Sections, stats.Modules, stats.Failed); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Pages = stats.Pages
	res.Sections = stats.Sections
	res.Merged = stats.Merged
	res.Modules = stats.Modules
	res.Failed = stats.Failed
	return res
}

func failRun(ctx context.Context, st *store.Store, id string, cause error) {
	if err := st.FailRun(ctx, id, cause.Error()); err != nil {
		slog.Error("marking run failed", "run", id, "error", err)
	}
}

func collectManuals(dir string) ([]string, error) {
	var manuals []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".text", ".pdf":
			manuals = append(manuals, path)
		}
		return nil
	})
	return manuals, err
}

func printSummary(results []result) {
	fmt.Println("=== Summary ===")
	fmt.Printf("  %-30s %-6s %6s %9s %8s %7s %10s\n",
		"FILE", "MODE", "PAGES", "SECTIONS", "MODULES", "FAILED", "ELAPSED")

	totalModules, totalFailed, errored := 0, 0, 0
	for _, r := range results {
		if r.Error != "" {
			errored++
			fmt.Printf("  %-30s %-6s ERROR: %s\n", r.File, r.Mode, r.Error)
			continue
		}
		totalModules += r.Modules
		totalFailed += r.Failed
		fmt.Printf("  %-30s %-6s %6d %9d %8d %7d %10s\n",
			r.File, r.Mode, r.Pages, r.Sections, r.Modules, r.Failed, r.Elapsed)
	}
	fmt.Printf("  %-30s %-6s %6s %9s %8d %7d\n", "TOTAL", "", "", "", totalModules, totalFailed)
	if errored > 0 {
		fmt.Printf("  %d conversions errored\n", errored)
	}
}

// createRunDir creates batch/runs/<timestamp>/ and returns its path.
func createRunDir() string {
	ts := time.Now().Format("2006-01-02_15-04-05")
	dir := filepath.Join("batch", "runs", ts)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("creating run directory: %v", err)
	}
	return dir
}

// setupLogTee configures slog to write to both stderr and batch.log in
// the run dir.
func setupLogTee(runDir string) *os.File {
	logPath := filepath.Join(runDir, "batch.log")
	f, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("creating log file: %v", err)
	}
	w := io.MultiWriter(os.Stderr, f)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))
	return f
}

// gitCommit returns the current git HEAD short hash, or "unknown".
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

// writeJSON marshals v to indented JSON and writes it to path.
func writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshaling JSON for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("writing %s: %v", path, err)
	}
}
