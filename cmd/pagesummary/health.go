package main

import (
	"github.com/spf13/cobra"

	"github.com/localrivet/pagesummary"
	"github.com/localrivet/pagesummary/internal/summarizer"
)

func newHealthCmd(a *app) *cobra.Command {
	var withMetrics bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report whether the active provider is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc *pagesummary.Service) error {
				snapshot, err := svc.Settings(cmd.Context())
				if err != nil {
					return err
				}
				report, err := summarizer.CreateHealthReportJSON(svc.Metrics(), snapshot)
				if err != nil {
					return err
				}

				p := a.printer()
				p.Plain(report)
				if withMetrics {
					p.Plain("")
					p.Plain(svc.Metrics().GetReport())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "also print the raw metrics recorded by this process")
	return cmd
}
