package main

import (
	"bytes"
	"fmt"

	"dish-analyzer/internal/sheet"

	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var (
		out    string
		groups int
		prices bool
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank dish or price list spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buf := &bytes.Buffer{}
			var err error
			if prices {
				err = sheet.WritePriceTemplate(buf)
			} else {
				err = sheet.WriteTemplate(buf, groups)
			}
			if err != nil {
				return err
			}
			if err := writeFile(out, buf.Bytes()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Saved")+" "+out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "dish-template.xlsx", "Output file")
	cmd.Flags().IntVar(&groups, "groups", 5, "Ingredient column groups in the dish template")
	cmd.Flags().BoolVar(&prices, "prices", false, "Write the price list template instead")

	return cmd
}
