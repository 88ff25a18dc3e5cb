package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/localrivet/pagesummary"
	"github.com/localrivet/pagesummary/internal/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the provider settings",
	}
	cmd.AddCommand(newSettingsShowCmd(a), newSettingsSetCmd(a), newSettingsUseCmd(a))
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the provider settings with credentials masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc *pagesummary.Service) error {
				current, err := svc.Settings(cmd.Context())
				if err != nil {
					return err
				}
				renderSettings(a.printer(), current)
				return nil
			})
		},
	}
}

func renderSettings(p *printer, s settings.Settings) {
	masked := s.Masked()
	rows := make([][]string, 0, len(settings.Kinds))
	for _, kind := range settings.Kinds {
		cfg, _ := masked.Provider(kind)
		active := ""
		if kind == s.APIType {
			active = "*"
		}
		key := cfg.APIKey
		if key == "" {
			key = "(not set)"
		}
		rows = append(rows, []string{active, kind.DisplayName(), key, cfg.Model})
	}
	p.Table([]string{"Active", "Provider", "API Key", "Model"}, rows)
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var (
		apiKey string
		model  string
	)

	cmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Set the API key or model of a provider",
		Long: `Set stores the API key and/or model for one provider. A blank model
restores the provider default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := settings.ParseKind(args[0])
			if err != nil {
				return err
			}
			u := settings.Update{Provider: kind}
			if cmd.Flags().Changed("api-key") {
				u.APIKey = &apiKey
			}
			if cmd.Flags().Changed("model") {
				u.Model = &model
			}
			if u.APIKey == nil && u.Model == nil {
				return errors.New("nothing to set: pass --api-key and/or --model")
			}

			return a.withService(cmd.Context(), func(svc *pagesummary.Service) error {
				saved, err := svc.UpdateSettings(cmd.Context(), u)
				if err != nil {
					return err
				}
				p := a.printer()
				p.Success("Saved %s settings", kind.DisplayName())
				renderSettings(p, saved)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the provider")
	cmd.Flags().StringVar(&model, "model", "", "model identifier for the provider")
	return cmd
}

func newSettingsUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "use <provider>",
		Short:     "Select the active provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(settings.ProviderOpenAI), string(settings.ProviderGemini), string(settings.ProviderDeepSeek)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := settings.ParseKind(args[0])
			if err != nil {
				return err
			}

			return a.withService(cmd.Context(), func(svc *pagesummary.Service) error {
				if _, err := svc.UpdateSettings(cmd.Context(), settings.Update{APIType: &kind}); err != nil {
					return err
				}
				a.printer().Success("Active provider is now %s", kind.DisplayName())
				return nil
			})
		},
	}
}
