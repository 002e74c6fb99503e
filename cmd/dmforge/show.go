package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brunobiangulo/dmforge/store"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run and its modules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")

			st, err := store.New(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Run:      %s\n", run.ID)
			fmt.Printf("Source:   %s\n", run.Source)
			fmt.Printf("Mode:     %s\n", run.Mode)
			fmt.Printf("Status:   %s\n", run.Status)
			if run.Error != "" {
				fmt.Printf("Error:    %s\n", run.Error)
			}
			fmt.Printf("Pages:    %d\n", run.Pages)
			fmt.Printf("Sections: %d\n", run.Sections)
			fmt.Printf("Modules:  %d (%d failed)\n", run.Modules, run.Failed)
			if run.OutputDir != "" {
				fmt.Printf("Output:   %s\n", run.OutputDir)
			}
			fmt.Printf("Created:  %s\n", run.CreatedAt)

			modules, err := st.ListModules(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if len(modules) == 0 {
				return nil
			}

			fmt.Println("\nModules:")
			for _, m := range modules {
				pages := strconv.Itoa(m.StartPage)
				if m.EndPage != m.StartPage {
					pages = fmt.Sprintf("%d-%d", m.StartPage, m.EndPage)
				}
				fmt.Printf("  %3d. %-48s %-10s pages %s\n",
					m.Sequence, m.Filename, m.DomainCode, pages)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "dmforge.db", "SQLite registry path")

	return cmd
}
