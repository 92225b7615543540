package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/honeybarrel/backend/config"
	"github.com/honeybarrel/backend/internal/infrastructure/baxus"
)

func newListingsCommand(ctx *commandContext) *cobra.Command {
	var baseURL string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Fetch and print the live BAXUS catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = cfg.BAXUS.BaseURL
			}

			client := baxus.NewClient(baseURL,
				baxus.WithPageSize(cfg.BAXUS.PageSize),
				baxus.WithRateLimit(cfg.RateLimit.BAXUS),
				baxus.WithLogger(ctx.log()),
			)
			client.SetDebug(ctx.debug)

			listings, err := client.FetchListings(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch listings: %w", err)
			}
			ctx.log().Debug("listings fetched", zap.Int("count", len(listings)))

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), listings)
			}

			rows := make([][]string, 0, len(listings))
			for _, l := range listings {
				rows = append(rows, []string{l.ID, l.Name, l.Vintage, l.Volume, l.Category, formatPrice(l.Price)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Vintage", "Volume", "Category", "Price"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d listings\n", len(listings))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "BAXUS API base URL (default from configuration)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print listings as JSON")

	return cmd
}
