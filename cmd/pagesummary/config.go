package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localrivet/pagesummary"
	"github.com/localrivet/pagesummary/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigFilename
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := pagesummary.DefaultConfig().SaveToFile(path); err != nil {
				return err
			}
			a.printer().Success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			p := a.printer()
			if path := cfg.GetConfigPath(); path != "" {
				p.Faint("# %s", path)
			}
			p.Table([]string{"Key", "Value"}, [][]string{
				{"store.sqlite_path", cfg.Store.SQLitePath},
				{"http.listen_addr", cfg.HTTP.ListenAddr},
				{"http.allowed_origins", cfg.HTTP.AllowedOrigins},
				{"http.client_timeout_seconds", fmt.Sprint(cfg.HTTP.ClientTimeoutSeconds)},
				{"logging.level", cfg.Logging.Level},
				{"logging.format", cfg.Logging.Format},
			})
			return nil
		},
	}
}
