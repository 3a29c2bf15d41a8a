package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/mcp"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the quarter_data tool over MCP on stdio",
		Long: `mcp speaks line-delimited JSON-RPC on stdin and stdout. Logs go to
stderr, or to --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			s := mcp.NewServer(a.cfg.ExcelPath, a.cfg.Server.DistDir, a.log)
			s.Load = a.loadFunc()
			return s.Serve(ctx, os.Stdin, os.Stdout)
		},
	}
}
