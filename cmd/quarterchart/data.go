package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) dataCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
	)
	cmd := &cobra.Command{
		Use:   "data [input.xlsx]",
		Short: "Print the aggregated quarterly dataset as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadFunc()(a.excelPath(args))
			if err != nil {
				return err
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(ds, "", "  ")
			} else {
				data, err = json.Marshal(ds)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
