package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"maturity.app/assessor/internal/client"
	"maturity.app/assessor/internal/http/dto"
	"maturity.app/assessor/internal/maturity"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress of the current assessment",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		sess, err := client.New(serverURL).Session(ctx)
		if err != nil {
			return fmt.Errorf("fetching session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStatus(sess))
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current assessment as a snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		resp, err := client.New(serverURL).SaveSession(ctx)
		if err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved snapshot %d at %s\n", resp.Snapshot.ID, resp.Snapshot.Timestamp)
		return nil
	},
}

func renderStatus(sess *dto.SessionResponse) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Assessment"))
	b.WriteString("\n\n")

	for _, p := range sess.Aggregates.PerDimension {
		label := labelStyle.Render(fmt.Sprintf("%-32s", p.Name))
		if p.Complete() {
			b.WriteString(fmt.Sprintf("%s %s\n", label, bandStyle(p.Band).Render(fmt.Sprintf("%6.2f%%", *p.Percentage))))
		} else {
			b.WriteString(fmt.Sprintf("%s %s\n", label, dimStyle.Render(fmt.Sprintf("%d/%d rated", p.Selected, p.Total))))
		}
	}

	b.WriteString("\n")
	b.WriteString(renderOverall(sess.Aggregates.Overall))
	return containerStyle.Render(b.String())
}

func renderOverall(o maturity.OverallScore) string {
	if !o.Complete() {
		return labelStyle.Render("Overall ") + dimStyle.Render(fmt.Sprintf("incomplete (%d/%d rated)", o.Selected, o.Total))
	}
	level := fmt.Sprintf("level %d", *o.RoundedLevel)
	if o.Stage != nil {
		level += " " + o.Stage.Name
	}
	return labelStyle.Render("Overall ") +
		valueStyle.Render(fmt.Sprintf("%.2f%%", *o.Percentage)) +
		dimStyle.Render(fmt.Sprintf("  %s, avg %.2f, %s policy", level, *o.AverageLevel, o.Policy))
}
