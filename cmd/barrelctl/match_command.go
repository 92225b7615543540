package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/honeybarrel/backend/internal/usecase"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var bottlePath string
	var catalogPath string
	var explain bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a bottle against a catalog file",
		Long: "Match a scraped bottle (JSON or YAML) against a catalog of listings (JSON or YAML)\n" +
			"using the same preprocessing and ranking as the server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			bottle, err := loadBottle(bottlePath)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			preprocessor := usecase.NewBottlePreprocessor(ctx.log(), ctx.debug)
			matcher := usecase.NewMatchingService(usecase.MatchConfig{
				Logger:             ctx.log(),
				EnableDebugLogging: ctx.debug,
			})

			prepared, site := preprocessor.Prepare(bottle)
			if site == usecase.SiteMarketplace {
				return errors.New("bottle is a BAXUS listing; nothing to compare")
			}

			result := usecase.NewComparisonResult(prepared, site, matcher.FindMatch(&prepared, catalog))

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Bottle: %s (site %s)\n", prepared.Name, site)
			if result.Match {
				fmt.Fprintf(out, "Match: %s [%s] %s\n", result.Listing.Name, result.Listing.ID, formatPrice(result.Listing.Price))
				if result.BetterDeal {
					fmt.Fprintf(out, "Savings: %s\n", formatPrice(result.Savings))
				}
			} else {
				fmt.Fprintln(out, "No match")
			}

			if explain {
				return printCandidates(cmd, matcher.Rank(&prepared, catalog))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bottlePath, "bottle", "", "Bottle file (JSON or YAML)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (JSON or YAML list of listings)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show every candidate that cleared the name gate")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the comparison result as JSON")
	_ = cmd.MarkFlagRequired("bottle")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

func printCandidates(cmd *cobra.Command, candidates []usecase.Candidate) error {
	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No candidates cleared the name gate")
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Listing.ID,
			c.Listing.Name,
			strconv.Itoa(c.Scores.Name),
			strconv.Itoa(c.Scores.Brand),
			strconv.Itoa(c.Scores.Vintage),
			strconv.Itoa(c.Scores.Volume),
			strconv.FormatFloat(c.TotalScore, 'f', 1, 64),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Rank", "ID", "Listing", "Name", "Brand", "Vintage", "Volume", "Total"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}
