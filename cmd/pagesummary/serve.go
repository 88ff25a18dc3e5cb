package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localrivet/pagesummary"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API or the MCP server",
	}
	cmd.AddCommand(newServeHTTPCmd(a), newServeMCPCmd(a))
	return cmd
}

func newServeHTTPCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the HTTP API used by the browser extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withService(ctx, func(svc *pagesummary.Service) error {
				if listen != "" {
					svc.Config().HTTP.ListenAddr = listen
				}
				return svc.ListenAndServe(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides http.listen_addr)")
	return cmd
}

func newServeMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the summarization tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc *pagesummary.Service) error {
				return svc.ServeMCP()
			})
		},
	}
}
