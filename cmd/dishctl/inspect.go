package main

import (
	"fmt"
	"os"

	"dish-analyzer/internal/export"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [report.xlsx]",
		Short: "Print the dish results stored in an exported Excel report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open report: %w", err)
			}
			defer f.Close()

			results, err := export.ReadExcel(f)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), renderResults(results))
			return nil
		},
	}
}
