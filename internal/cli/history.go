package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/pipeline"
)

var (
	trendsLimit       int
	searchCategory    string
	searchCredibility string
	searchLimit       int
	historyJSON       bool
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show per-category verdict trends from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		points, err := st.ListTrends(cmd.Context(), trendsLimit)
		if err != nil {
			return eris.Wrap(err, "list trends")
		}
		if historyJSON {
			return pipeline.WriteJSON(cmd.OutOrStdout(), points)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tCATEGORY\tCLAIMS\tFALSE\tFALSE RATE")
		for _, p := range points {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f%%\n", p.Date, p.Category, p.ClaimCount, p.FalseClaimCount, p.FalseRate())
		}
		return w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals over all stored verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		stats, err := st.Stats(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "stats")
		}
		if historyJSON {
			return pipeline.WriteJSON(cmd.OutOrStdout(), stats)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total claims:   %d\n", stats.TotalClaims)
		fmt.Fprintf(out, "True:           %d\n", stats.TrueClaims)
		fmt.Fprintf(out, "False:          %d\n", stats.FalseClaims)
		fmt.Fprintf(out, "Mixed:          %d\n", stats.MixedClaims)
		fmt.Fprintf(out, "Accuracy rate:  %.2f%%\n", stats.AccuracyRate)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored verdicts by claim text or reasoning",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		band := model.CredibilityBand(strings.ToLower(searchCredibility))
		switch band {
		case model.BandAny, model.BandHigh, model.BandMedium, model.BandLow:
		default:
			return eris.Errorf("--credibility must be high, medium or low, got %q", searchCredibility)
		}

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		records, err := st.SearchClaims(cmd.Context(), model.ClaimSearch{
			Query:       strings.Join(args, " "),
			Category:    searchCategory,
			Credibility: band,
			Limit:       searchLimit,
		})
		if err != nil {
			return eris.Wrap(err, "search claims")
		}
		if historyJSON {
			return pipeline.WriteJSON(cmd.OutOrStdout(), records)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSCORE\tSTATUS\tCATEGORY\tCLAIM")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%s\n", r.ID, r.CredibilityScore, r.Status, r.Category, truncate(r.ClaimText, 70))
		}
		return w.Flush()
	},
}

func init() {
	trendsCmd.Flags().IntVar(&trendsLimit, "limit", 20, "maximum trend points")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "filter by category")
	searchCmd.Flags().StringVar(&searchCredibility, "credibility", "", "filter by band (high, medium, low)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results")

	for _, c := range []*cobra.Command{trendsCmd, statsCmd, searchCmd} {
		c.Flags().BoolVar(&historyJSON, "json", false, "print JSON")
		rootCmd.AddCommand(c)
	}
}
