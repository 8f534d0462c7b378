package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ppiankov/truthlens/internal/model"
)

var (
	checkJSON    string
	checkMD      string
	checkSave    bool
	checkText    bool
	checkReviews bool
	checkTimeout time.Duration
	checkLLM     llmFlags
)

// checkCmd verifies a single claim
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Check the credibility of a claim",
	Long: `Check scores one claim: external fact-checks are looked up, the text is
analyzed for source, sensational and structural signals, and a verdict is
produced with its reasoning.

With --text the input is treated as free text: claims are extracted and
the most claim-like sentence is checked.

Example:
  truthlens check "Vaccines cause autism"
  truthlens check "The earth is flat" --json -
  truthlens check --text "I love sunny days. A new study says 40% of adults skip breakfast." --md report.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkJSON, "json", "", "output JSON path (- for stdout)")
	checkCmd.Flags().StringVar(&checkMD, "md", "", "output Markdown path")
	checkCmd.Flags().BoolVar(&checkSave, "save", false, "persist the verdict and update trends")
	checkCmd.Flags().BoolVar(&checkText, "text", false, "extract claims from free text and check the main one")
	checkCmd.Flags().BoolVar(&checkReviews, "check-links", false, "verify that cited fact-check reviews are reachable")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "overall check timeout")
	checkLLM.register(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	if err := checkLLM.apply(cfg); err != nil {
		return err
	}
	cfg.HTTP.CheckLinks = cfg.HTTP.CheckLinks || checkReviews

	e, err := buildEnv(ctx, cfg, checkSave)
	if err != nil {
		return err
	}
	defer e.Close()

	var report *model.CheckReport
	if checkText {
		report, err = e.Pipeline.CheckContent(ctx, input)
	} else {
		report, err = e.Pipeline.CheckText(ctx, input)
	}
	if err != nil {
		return eris.Wrap(err, "check failed")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checked with %s fact-check data\n", orUnknown(string(report.Result.Provenance)))
		if report.Extraction != nil {
			fmt.Fprintf(os.Stderr, "Extracted %d candidate claims\n", len(report.Extraction.Claims))
		}
	}

	summaryOut := cmd.OutOrStdout()
	if checkJSON == "-" {
		summaryOut = os.Stderr
	}
	return e.Pipeline.Render(report, checkJSON, checkMD, summaryOut)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
