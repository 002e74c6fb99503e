// Package main is the entry point for the dmforge CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "dmforge",
		Short: "Convert page-tagged technical manuals into S1000D data modules",
		Long: `dmforge converts page-tagged plain-text exports of technical manuals
into S1000D-style XML data modules.

It detects section headings, assembles page-ranged sections, classifies
them into aircraft system domains, and renders one data module per
section together with CSV and XLSX manifests and a processing report.`,
		Version: version,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging keeps stderr quiet unless --verbose asks for the full
// pipeline trace.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
