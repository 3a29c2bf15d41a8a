package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/controller"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/mcp"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/tui"
)

func (a *app) playCmd() *cobra.Command {
	var (
		source       string
		watch        bool
		snapshotPath string
	)
	cmd := &cobra.Command{
		Use:   "play [input.xlsx]",
		Short: "Show the animated chart in the terminal",
		Long: `play opens an interactive chart. Press ? inside for keys.

Data comes from the workbook (--source file), a running preview server
(api), a published data.json (static), an MCP server (mcp), or the API
with the static file as fallback (auto).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			if cmd.Flags().Changed("source") {
				a.cfg.Play.Source = source
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Play.Watch = watch
			}
			// Logs would tear the alternate screen.
			if a.logFile == "" {
				a.log = zap.NewNop()
			}

			src, closeSrc, err := a.playSource(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			store, closePrefs, err := a.openPrefs(ctx)
			if err != nil {
				return err
			}
			defer closePrefs()

			sink := &tui.Sink{}
			ctrl := controller.New(controller.Config{
				Source: src,
				Prefs:  store,
				Sink:   sink,
				Locale: a.cfg.Locale,
				Logger: a.log,
			})
			return tui.Run(ctx, ctrl, sink, tui.Options{
				Path:         a.excelPath(args),
				SnapshotPath: snapshotPath,
				Watch:        a.cfg.Play.Watch && a.cfg.Play.Source == "file",
				Logger:       a.log,
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Data source: file, api, static, mcp, or auto (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when the workbook changes (file source only)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", prefs.PublishedFileName, "Where exported preferences are written")
	return cmd
}

// playSource builds the configured data source. The returned func
// releases it.
func (a *app) playSource(ctx context.Context) (controller.Source, func(), error) {
	noop := func() {}
	play := a.cfg.Play
	switch play.Source {
	case "file":
		return controller.FileSource{Options: a.loadOptions()}, noop, nil
	case "api":
		return controller.APISource{BaseURL: play.APIURL}, noop, nil
	case "static":
		return controller.StaticSource{Location: play.StaticURL}, noop, nil
	case "auto":
		return controller.FallbackSource{
			Sources: []controller.Source{
				controller.APISource{BaseURL: play.APIURL},
				controller.StaticSource{Location: play.StaticURL},
			},
			Logger: a.log,
		}, noop, nil
	case "mcp":
		client, err := mcp.Spawn(ctx, play.MCPCommand, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start MCP server: %w", err)
		}
		if err := client.Initialize(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("MCP handshake failed: %w", err)
		}
		return controller.MCPSource{Client: client}, func() {
			if err := client.Close(); err != nil {
				a.log.Debug("MCP client close", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown play source: %s", play.Source)
	}
}
