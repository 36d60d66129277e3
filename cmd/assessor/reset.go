package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"maturity.app/assessor/internal/client"
)

var resetYes bool

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the entire snapshot history",
	Long:  `Delete every saved snapshot. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetYes {
			fmt.Fprint(cmd.OutOrStdout(), "Delete all saved snapshots? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
		}

		ctx, cancel := requestContext()
		defer cancel()

		if err := client.New(serverURL).ClearSnapshots(ctx); err != nil {
			return fmt.Errorf("clearing snapshots: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "snapshot history cleared")
		return nil
	},
}
