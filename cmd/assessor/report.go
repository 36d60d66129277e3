package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"maturity.app/assessor/internal/client"
	"maturity.app/assessor/internal/http/dto"
)

var (
	reportFormat  string
	reportDetails bool
	reportWrap    int
)

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "terminal", "output format: terminal, markdown, html or json")
	reportCmd.Flags().BoolVar(&reportDetails, "details", false, "include level detail text")
	reportCmd.Flags().IntVar(&reportWrap, "wrap", 100, "word wrap width for terminal output")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the gap report for the latest snapshot",
	Long: `Print the current-vs-next level gap report for the most recently saved
snapshot.

Examples:
  # Render in the terminal
  assessor report

  # Save as HTML
  assessor report --format html > report.html

  # Structured rows for scripting
  assessor report --format json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		c := client.New(serverURL)
		switch reportFormat {
		case dto.ReportFormatJSON:
			rep, err := c.Report(ctx, reportDetails)
			if err != nil {
				return fmt.Errorf("fetching report: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		case "terminal", dto.ReportFormatMarkdown, dto.ReportFormatHTML:
		default:
			return fmt.Errorf("unknown format %q", reportFormat)
		}

		format := reportFormat
		if format == "terminal" {
			format = dto.ReportFormatMarkdown
		}
		text, err := c.RenderedReport(ctx, format, reportDetails)
		if err != nil {
			return fmt.Errorf("fetching report: %w", err)
		}

		if reportFormat == "terminal" {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(reportWrap),
			)
			if err != nil {
				return fmt.Errorf("creating renderer: %w", err)
			}
			out, err := renderer.Render(text)
			if err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			text = out
		}

		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}
