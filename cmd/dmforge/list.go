package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/dmforge/store"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded conversion runs",
		Long: `List shows the conversion runs recorded in the SQLite registry, newest
first.

Examples:
  dmforge list
  dmforge list --db runs.db --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")

			st, err := store.New(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			fmt.Printf("%-36s  %-24s  %-5s  %7s  %6s  %s\n",
				"ID", "SOURCE", "MODE", "MODULES", "FAILED", "STATUS")
			for _, r := range runs {
				fmt.Printf("%-36s  %-24s  %-5s  %7d  %6d  %s\n",
					r.ID, r.Source, r.Mode, r.Modules, r.Failed, r.Status)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "dmforge.db", "SQLite registry path")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	return cmd
}
