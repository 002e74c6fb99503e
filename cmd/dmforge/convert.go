package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brunobiangulo/dmforge"
	"github.com/brunobiangulo/dmforge/report"
	"github.com/brunobiangulo/dmforge/store"
)

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <source>",
		Short: "Convert a manual into S1000D data modules",
		Long: `Convert reads a page-tagged text export (or a PDF) and writes one XML
data module per detected section, together with CSV and XLSX manifests,
a README and a processing report.

Examples:
  dmforge convert f16_manual.txt
  dmforge convert f16_manual.txt --mode full -o out/modules
  dmforge convert f16_manual.txt --config dmforge.yaml --db runs.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			output, _ := cmd.Flags().GetString("output")
			configPath, _ := cmd.Flags().GetString("config")
			mode, _ := cmd.Flags().GetString("mode")
			idWidth, _ := cmd.Flags().GetInt("id-width")
			skipMerge, _ := cmd.Flags().GetBool("skip-merge")
			date, _ := cmd.Flags().GetString("date")
			dbPath, _ := cmd.Flags().GetString("db")
			verbose, _ := cmd.Flags().GetBool("verbose")

			setupLogging(verbose)

			cfg := dmforge.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = dmforge.Load(configPath)
				if err != nil {
					return err
				}
			}
			// Flags win over the config file, but only when given.
			if cmd.Flags().Changed("mode") {
				cfg.Mode = mode
			}
			if cmd.Flags().Changed("id-width") {
				cfg.IDWidth = idWidth
			}
			if cmd.Flags().Changed("skip-merge") {
				cfg.SkipMerge = skipMerge
			}
			if cmd.Flags().Changed("date") {
				cfg.Date = date
			}

			pipeline, err := dmforge.New(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Converting %s (mode: %s)\n", source, pipeline.Config().Mode)
			res, err := pipeline.ProcessFile(cmd.Context(), source)
			if err != nil {
				return err
			}

			meta := report.Meta{Source: filepath.Base(source), Mode: pipeline.Config().Mode}
			if err := report.Write(output, res, meta); err != nil {
				return err
			}

			if dbPath != "" {
				if err := recordRun(cmd.Context(), dbPath, source, output, pipeline.Config(), res); err != nil {
					return err
				}
			}

			printSummary(res, output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "modules", "Output directory for XML modules and reports")
	cmd.Flags().String("config", "", "YAML config file applied under the flags")
	cmd.Flags().String("mode", "", "Heading rule set: smart or full")
	cmd.Flags().Int("id-width", 0, "Zero-padding width of module numbers")
	cmd.Flags().Bool("skip-merge", false, "Keep sub-page sections instead of folding them")
	cmd.Flags().String("date", "", "Issue date stamped into modules (YYYY-MM-DD)")
	cmd.Flags().String("db", "", "SQLite registry to record the run in (optional)")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	return cmd
}

func printSummary(res *dmforge.Result, output string) {
	stats := res.Stats
	fmt.Printf("\nConversion complete in %v\n", stats.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Pages:    %d\n", stats.Pages)
	fmt.Printf("  Sections: %d (%d folded into a predecessor)\n", stats.Sections, stats.Merged)
	fmt.Printf("  Modules:  %d\n", stats.Modules)
	if stats.Failed > 0 {
		fmt.Printf("  Failed:   %d\n", stats.Failed)
		for _, f := range res.Failed {
			fmt.Printf("    %d. %s: %v\n", f.Sequence, f.Filename, f.Err)
		}
	}
	fmt.Printf("\nOutput written to %s\n", output)
}

// recordRun stores the finished run and its module manifest in the
// SQLite registry.
func recordRun(ctx context.Context, dbPath, source, output string, cfg dmforge.Config, res *dmforge.Result) error {
	st, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	id := uuid.NewString()
	run := store.Run{
		ID:        id,
		Source:    filepath.Base(source),
		Mode:      cfg.Mode,
		IDWidth:   cfg.IDWidth,
		OutputDir: output,
	}
	if err := st.CreateRun(ctx, run); err != nil {
		return err
	}
	if err := st.InsertModules(ctx, id, storeModules(id, res)); err != nil {
		return err
	}
	stats := res.Stats
	if err := st.FinishRun(ctx, id, stats.Pages, stats.Sections, stats.Modules, stats.Failed); err != nil {
		return err
	}
	fmt.Printf("Run recorded: %s\n", id)
	return nil
}

func storeModules(runID string, res *dmforge.Result) []store.Module {
	out := make([]store.Module, 0, len(res.Documents))
	for _, doc := range res.Documents {
		out = append(out, store.NewModule(runID, doc.Module))
	}
	return out
}
