package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"maturity.app/assessor/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with catalog files",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a JSON, YAML or TOML catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		levels := 0
		for _, d := range cat.Dimensions {
			for _, sd := range d.SubDimensions {
				levels += len(sd.Levels)
			}
		}
		scale := "mixed scales"
		if l, ok := cat.UniformMaxLevel(); ok {
			scale = fmt.Sprintf("%d-level scale", l)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d dimensions, %d sub-dimensions, %d level descriptions, %s, %d stages\n",
			len(cat.Dimensions), cat.SubDimensionCount(), levels, scale, len(cat.Stages))
		return nil
	},
}

var catalogSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of catalog documents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := json.MarshalIndent(catalog.Schema(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogSchemaCmd)
}
