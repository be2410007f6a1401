package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"dish-analyzer/internal/config"
	"dish-analyzer/internal/export"
	"dish-analyzer/internal/model"
	"dish-analyzer/internal/repository"
	"dish-analyzer/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	dishes      string
	prices      string
	xlsxOut     string
	pdfOut      string
	jsonOut     bool
	noCatalogue bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a dish spreadsheet and print the results",
		Long: `Analyse a dish spreadsheet, optionally with an ingredient price list.

Ingredient prices come from the built-in reference catalogue, then any costs
given inline in the dish spreadsheet, then the price list.

Example: dishctl analyze --dishes menu.xlsx --prices prices.xlsx --pdf report.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dishes, "dishes", "", "Dish spreadsheet (.xlsx)")
	cmd.Flags().StringVar(&opts.prices, "prices", "", "Ingredient price list (.xlsx, optional)")
	cmd.Flags().StringVar(&opts.xlsxOut, "xlsx", "", "Write the Excel report to this file")
	cmd.Flags().StringVar(&opts.pdfOut, "pdf", "", "Write the PDF report to this file")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&opts.noCatalogue, "no-catalogue", false, "Only use spreadsheet prices")
	_ = cmd.MarkFlagRequired("dishes")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts analyzeOptions) error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return fmt.Errorf("invalid analysis configuration: %w", err)
	}
	logger := cliLogger(cfg, cmd.ErrOrStderr())

	req := &model.AnalysisRequest{}
	if req.DishWorkbook, err = os.ReadFile(opts.dishes); err != nil {
		return fmt.Errorf("failed to read dish spreadsheet: %w", err)
	}
	if opts.prices != "" {
		if req.PriceWorkbook, err = os.ReadFile(opts.prices); err != nil {
			return fmt.Errorf("failed to read price spreadsheet: %w", err)
		}
	}

	catalogue := repository.NewMemoryRepository(repository.DefaultCatalogue(), logger)
	analysis := service.NewAnalysisService(nil, catalogue, nil, service.AnalysisOptions{
		Thresholds:   cfg.Analysis.Thresholds(),
		UseCatalogue: cfg.Analysis.UseCatalogue && !opts.noCatalogue,
		Timeout:      cfg.Analysis.Timeout,
	}, logger)

	report, err := analysis.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		fmt.Fprintln(out, renderReport(report, cfg.Theme.ReportTitle))
	}

	if opts.xlsxOut != "" {
		buf := &bytes.Buffer{}
		if err := export.WriteExcel(buf, report); err != nil {
			return err
		}
		if err := writeFile(opts.xlsxOut, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Saved")+" "+opts.xlsxOut)
	}

	if opts.pdfOut != "" {
		charts, err := export.RenderCharts(report.Dishes, chartStyle(cfg.Theme))
		if err != nil {
			return err
		}
		buf := &bytes.Buffer{}
		err = export.WritePDF(buf, report, export.PDFOptions{
			Title:        cfg.Theme.ReportTitle,
			Tagline:      cfg.Theme.Tagline,
			AccentColour: cfg.Theme.AccentColour,
			Logo:         cfg.Theme.Logo,
			Charts:       charts,
		})
		if err != nil {
			return err
		}
		if err := writeFile(opts.pdfOut, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Saved")+" "+opts.pdfOut)
	}

	return nil
}

// cliLogger logs to w in console format; only warnings and errors are shown
// unless LOG_LEVEL asks for more.
func cliLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	lc := cfg.Logger
	lc.Format = "console"
	if lc.Level == "info" {
		lc.Level = "warn"
	}
	return config.NewLogger(lc, w)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
