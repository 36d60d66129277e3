package main

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/spf13/cobra"

	"maturity.app/assessor/internal/client"
	"maturity.app/assessor/internal/trend"
)

const sparklineHeight = 6

var trendWidth int

func init() {
	trendCmd.Flags().IntVar(&trendWidth, "width", 60, "chart width in columns")
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Chart the overall maturity percentage over time",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		series, err := client.New(serverURL).Trend(ctx)
		if err != nil {
			return fmt.Errorf("fetching trend: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTrend(series, trendWidth))
		return nil
	},
}

func renderTrend(series *trend.Series, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Maturity trend (%s)", series.Policy)))
	b.WriteString("\n\n")

	if len(series.Points) == 0 {
		b.WriteString(dimStyle.Render("no complete snapshots yet"))
	} else {
		if width < 10 {
			width = 10
		}
		spark := sparkline.New(width, sparklineHeight, sparkline.WithMaxValue(100))
		for _, p := range series.Points {
			spark.Push(p.Percentage)
		}
		spark.Draw()
		b.WriteString(sparklineStyle.Render(spark.View()))
		b.WriteString("\n\n")

		first, last := series.Points[0], series.Points[len(series.Points)-1]
		b.WriteString(fmt.Sprintf("%s %s  %s\n", labelStyle.Render("first"), valueStyle.Render(fmt.Sprintf("%6.2f%%", first.Percentage)), dimStyle.Render(first.Timestamp)))
		b.WriteString(fmt.Sprintf("%s %s  %s", labelStyle.Render("last "), valueStyle.Render(fmt.Sprintf("%6.2f%%", last.Percentage)), dimStyle.Render(last.Timestamp)))
	}

	if n := len(series.Skipped); n > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d snapshot(s) skipped", n)))
		for _, s := range series.Skipped {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d  %s", s.SnapshotID, s.Reason)))
		}
	}
	return containerStyle.Render(b.String())
}
