package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/site"
)

func (a *app) buildPagesCmd() *cobra.Command {
	var docsDir string
	cmd := &cobra.Command{
		Use:   "build-pages [input.xlsx]",
		Short: "Write a static site with the UI bundle and a data snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if docsDir == "" {
				docsDir = a.cfg.Pages.DocsDir
			}
			written, err := site.Build(site.BuildOptions{
				DistDir:           a.cfg.Server.DistDir,
				DocsDir:           docsDir,
				ExcelPath:         a.excelPath(args),
				PublishedDefaults: a.cfg.Pages.PublishedDefaults,
				Load:              a.loadFunc(),
				Logger:            a.log,
			})
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&docsDir, "docs-dir", "", "Output directory (default from config)")
	return cmd
}
