package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/localrivet/pagesummary"
	"github.com/localrivet/pagesummary/internal/config"
	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/logger"
)

// app carries the global flags and the service factory shared by every command.
type app struct {
	cfgFile string
	noColor bool

	out    io.Writer
	errOut io.Writer

	// openService builds the service; tests replace it.
	openService func(ctx context.Context) (*pagesummary.Service, error)
}

func newApp(out, errOut io.Writer) *app {
	a := &app{out: out, errOut: errOut}
	a.openService = a.defaultService
	return a
}

func (a *app) printer() *printer {
	return &printer{out: a.out, useColors: resolveColors(a.noColor)}
}

// loadConfig reads the config file named by --config, or the default one.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithPath(a.cfgFile)
	if err != nil {
		return nil, errortypes.ConfigError(err, "loading config")
	}
	return cfg, nil
}

func (a *app) defaultService(context.Context) (*pagesummary.Service, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr; stdout carries summaries and the MCP protocol.
	log := logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format, a.errOut)
	return pagesummary.NewService(pagesummary.ServiceOptions{Config: cfg, Logger: log})
}

// withService opens the service, runs fn and closes the service.
func (a *app) withService(ctx context.Context, fn func(*pagesummary.Service) error) error {
	svc, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pagesummary",
		Short: "Summarize web pages with OpenAI, Gemini or DeepSeek",
		Long: `pagesummary sends the readable text of a web page to the LLM provider
selected in its settings and prints the provider's markdown summary.

Example usage:
  pagesummary settings set openai --api-key sk-...   # Store a credential
  pagesummary settings use gemini                     # Switch the active provider
  pagesummary summarize https://example.com/article   # Fetch and summarize a page
  pagesummary serve http                              # Run the HTTP API for the extension
  pagesummary serve mcp                               # Serve the MCP tools on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is "+config.DefaultConfigFilename+")")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newSummarizeCmd(a),
		newSettingsCmd(a),
		newServeCmd(a),
		newHealthCmd(a),
		newConfigCmd(a),
	)
	return root
}
