package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
)

func (a *app) prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and edit saved chart preferences",
	}
	cmd.AddCommand(
		a.prefsShowCmd(),
		a.prefsSetColorCmd(),
		a.prefsResetColorsCmd(),
		a.prefsSetOrderCmd(),
		a.prefsResetOrderCmd(),
		a.prefsExportCmd(),
	)
	return cmd
}

// withPrefs runs fn against the opened store and closes it afterwards.
func (a *app) withPrefs(cmd *cobra.Command, fn func(*prefs.Store) error) error {
	store, closePrefs, err := a.openPrefs(cmd.Context())
	if err != nil {
		return err
	}
	defer closePrefs()
	return fn(store)
}

func (a *app) prefsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print overrides and published defaults as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withPrefs(cmd, func(s *prefs.Store) error {
				data, err := json.MarshalIndent(map[string]interface{}{
					"colorOverrides": s.ColorOverrides(),
					"orderOverride":  s.OrderOverride(),
					"published":      s.Published(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
}

func (a *app) prefsSetColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-color <category> <#RRGGBB>",
		Short: "Override a category's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPrefs(cmd, func(s *prefs.Store) error {
				return s.SetColorOverride(args[0], args[1])
			})
		},
	}
}

func (a *app) prefsResetColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-colors",
		Short: "Drop all color overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withPrefs(cmd, (*prefs.Store).ClearColorOverrides)
		},
	}
}

func (a *app) prefsSetOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-order <category>...",
		Short: "Set the stacking order, bottom first",
		Long: `set-order stores the given categories as the stacking order. A single
comma-separated argument is accepted too. Categories not listed keep
their default position after the listed ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order := args
			if len(args) == 1 {
				order = strings.Split(args[0], ",")
			}
			for i := range order {
				order[i] = strings.TrimSpace(order[i])
			}
			return a.withPrefs(cmd, func(s *prefs.Store) error {
				return s.SetOrderOverride(order)
			})
		},
	}
}

func (a *app) prefsResetOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-order",
		Short: "Drop the stacking order override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withPrefs(cmd, (*prefs.Store).ClearOrderOverride)
		},
	}
}

func (a *app) prefsExportCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write overrides as a published-defaults.json snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withPrefs(cmd, func(s *prefs.Store) error {
				if err := prefs.WriteSnapshot(outputPath, s.ExportSnapshot()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Put it in data/ and run build-pages.\n", outputPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", prefs.PublishedFileName, "Output file path")
	return cmd
}
