package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/export"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		outputPath string
		format     string
		scale      string
		snap       = export.DefaultSnapshot
	)
	cmd := &cobra.Command{
		Use:   "export [input.xlsx]",
		Short: "Render one chart window to a PNG or SVG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = filepath.Ext(outputPath)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if snap.Scale, err = view.ParseScaleMode(scale); err != nil {
				return err
			}

			ds, err := a.loadFunc()(a.excelPath(args))
			if err != nil {
				return err
			}
			store, closePrefs, err := a.openPrefs(cmd.Context())
			if err != nil {
				return err
			}
			defer closePrefs()

			scene := export.Scene(ds, store, view.NewFormatter(a.cfg.Locale), snap)

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
			if err := export.Write(out, f, scene); err != nil {
				out.Close()
				return fmt.Errorf("failed to render chart: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			a.log.Info("Exported chart",
				zap.String("path", outputPath),
				zap.String("format", string(f)),
				zap.Int("start", snap.Start))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "chart.png", "Output file path")
	cmd.Flags().StringVar(&format, "format", "", "png or svg (default from the output extension)")
	cmd.Flags().StringVar(&scale, "scale", "raw", "Value scale: raw, k, or m")
	cmd.Flags().IntVar(&snap.Start, "start", 0, "Index of the first quarter in the window")
	cmd.Flags().IntVar(&snap.Width, "width", snap.Width, "Image width in pixels")
	cmd.Flags().IntVar(&snap.Height, "height", snap.Height, "Image height in pixels")
	return cmd
}
