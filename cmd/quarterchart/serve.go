package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/server"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web preview",
		Long: `serve hosts the built UI bundle and the JSON endpoints it reads.
If the port is taken the next free one is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			store, closePrefs, err := a.openPrefs(ctx)
			if err != nil {
				return err
			}
			defer closePrefs()

			srv := server.New(server.Options{
				DefaultPath:       a.cfg.ExcelPath,
				DistDir:           a.cfg.Server.DistDir,
				PublishedDefaults: a.cfg.Pages.PublishedDefaults,
				Load:              a.loadFunc(),
				Prefs:             store,
				Locale:            a.cfg.Locale,
				Logger:            a.log,
			})
			ln, err := server.Listen(ctx, a.cfg.Server.Host, a.cfg.Server.Port, a.cfg.Server.MaxPortTries)
			if err != nil {
				return err
			}
			a.log.Debug("Listening", zap.String("addr", ln.Addr().String()), zap.String("excel_path", a.cfg.ExcelPath))
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Host to bind (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "First port to try (default from config)")
	return cmd
}
