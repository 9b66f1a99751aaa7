package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"TickerLens/internal/analysis"
	"TickerLens/internal/config"
	"TickerLens/internal/model"
	"TickerLens/internal/strategy"
)

func newAnalyzeCmd(cfgPath *string) *cobra.Command {
	var period, profile string
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Analyze one symbol and print the report as JSON",
		Example: `  tickerlens analyze AAPL
  tickerlens analyze MSFT --period 1mo --profile standard`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Keep stdout clean for the JSON report.
			a, err := newApp(*cfgPath, func(c *config.Config) {
				if c.Log.Output == "" || c.Log.Output == "stdout" {
					c.Log.Output = "stderr"
				}
			})
			if err != nil {
				return err
			}

			req := analysis.Request{Symbol: args[0], Profile: profile}
			if period != "" {
				l, err := model.ParseLookback(period)
				if err != nil {
					return err
				}
				req.Period = l
			}

			report, err := a.service.Analyze(context.Background(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", "", "lookback window: 1mo, 3mo or 1y (default from config)")
	cmd.Flags().StringVar(&profile, "profile", "", "scoring profile: standard or advanced (default from config)")
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available scoring profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, p := range strategy.Profiles() {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
			}
			return w.Flush()
		},
	}
}
