package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/pipeline"
	"github.com/ppiankov/truthlens/internal/worker"
)

const maxFilenameLen = 100

var (
	concurrency  int
	batchOutput  string
	outputDir    string
	batchTimeout time.Duration
	batchSave    bool
	batchLLM     llmFlags
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many claims or URLs from a file in parallel",
	Long: `Batch reads one input per line (blank lines and # comments are skipped,
duplicates are checked once). Lines starting with http:// or https:// are
scanned as pages; anything else is checked as text.

All results are written to one JSON file in input order; --output-dir
additionally writes a JSON and Markdown report per input.

Example:
  truthlens batch claims.txt
  truthlens batch claims.txt --concurrency 8 --output results.json
  truthlens batch urls.txt --output-dir ./reports --save`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "truthlens-batch.json", "results JSON path")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "also write one report per input to this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist verdicts and update trends")

	// Page fetch flags shared with scan
	batchCmd.Flags().DurationVar(&timeout, "scan-timeout", 30*time.Second, "timeout for individual page fetches")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default from config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fact-check cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().BoolVar(&checkLinks, "check-links", false, "verify that cited fact-check reviews are reachable")

	batchLLM.register(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	applyHTTPFlags()
	if err := batchLLM.apply(cfg); err != nil {
		return err
	}
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	fmt.Fprintf(os.Stderr, "Input file:  %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:     %d\n", workers)
	fmt.Fprintf(os.Stderr, "Output:      %s\n", batchOutput)
	fmt.Fprintf(os.Stderr, "Timeout:     %v\n\n", batchTimeout)

	e, err := buildEnv(ctx, cfg, batchSave)
	if err != nil {
		return err
	}
	defer e.Close()

	processor := worker.NewBatchProcessor(e.Pipeline, workers)
	run, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return eris.Wrap(err, "process file")
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return eris.Wrap(err, "create output directory")
		}
	}

	for _, result := range run.Results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Input, result.Error)
			continue
		}
		res := result.Report.Result
		fmt.Fprintf(os.Stderr, "✓ %s (%.1f/10, %s)\n", truncate(result.Input, 60), res.CredibilityScore, res.Status)

		if outputDir != "" {
			base := filepath.Join(outputDir, fmt.Sprintf("%03d-%s", result.Index+1, sanitizeFilename(result.Input)))
			if err := e.Pipeline.Render(result.Report, base+".json", base+".md", nil); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Input, err)
			}
		}
	}

	out, err := os.Create(batchOutput)
	if err != nil {
		return eris.Wrap(err, "create results file")
	}
	if err := pipeline.WriteJSON(out, run); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return eris.Wrap(err, "close results file")
	}

	s := run.Summary
	fmt.Fprintf(os.Stderr, "\nBatch %s complete\n", run.ID)
	fmt.Fprintf(os.Stderr, "  Total:     %d\n", s.Total)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", s.Failed)
	fmt.Fprintf(os.Stderr, "  Degraded:  %d\n", s.Degraded)
	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(os.Stderr, "  %-14s %d\n", status+":", s.ByStatus[model.Status(status)])
	}
	fmt.Fprintf(os.Stderr, "  Duration:  %v\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	return nil
}

// sanitizeFilename turns an input line into a safe file name stem
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	s = strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	).Replace(s)
	s = strings.Trim(s, "-_.")
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	if s == "" {
		return "input"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
