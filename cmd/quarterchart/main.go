// Package main provides the quarterchart command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/config"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/logging"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	logFile    string

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "quarterchart",
		Short: "Animated quarterly stacked bar charts from Excel workbooks",
		Long: `quarterchart aggregates dated category rows from an Excel workbook into
quarterly counts and shows them as a stacked bar chart with a sliding
12-quarter window: in the terminal, through a local web preview, over MCP,
or as a static site.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Config file path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(
		a.dataCmd(),
		a.serveCmd(),
		a.mcpCmd(),
		a.buildPagesCmd(),
		a.playCmd(),
		a.exportCmd(),
		a.prefsCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	var paths []string
	if a.logFile != "" {
		paths = []string{a.logFile}
	}
	log, err := logging.New(logging.Verbose(cfg.Logging.Level, a.verbose), cfg.Logging.Development, paths...)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	a.log.Debug("Loaded config", zap.String("path", a.configPath), zap.String("excel_path", cfg.ExcelPath))
	return nil
}

func (a *app) loadOptions() quarterchart.Options {
	return quarterchart.Options{Sheet: a.cfg.Sheet, Locale: a.cfg.Locale, Logger: a.log}
}

func (a *app) loadFunc() func(string) (*models.Dataset, error) {
	opts := a.loadOptions()
	return func(path string) (*models.Dataset, error) {
		return quarterchart.Load(path, opts)
	}
}

// excelPath is the first argument, or the configured workbook.
func (a *app) excelPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.ExcelPath
}

// openPrefs opens the configured preference store with published
// defaults installed. The returned func closes the storage.
func (a *app) openPrefs(ctx context.Context) (*prefs.Store, func(), error) {
	storage, err := prefs.OpenStorage(a.cfg.Prefs.Backend, a.cfg.Prefs.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	store := prefs.NewStore(storage, a.log)
	store.SetPublished(prefs.LoadPublished(ctx, a.cfg.Pages.PublishedDefaults, a.log))
	closeFn := func() {
		if err := storage.Close(); err != nil {
			a.log.Warn("Failed to close preferences", zap.Error(err))
		}
	}
	return store, closeFn, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
