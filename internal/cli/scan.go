package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	noRobots    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	checkLinks  bool
	scanSave    bool
	scanLLM     llmFlags
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Check the main claim of a web page",
	Long: `Scan fetches a page (respecting robots.txt), reads its visible text,
extracts candidate claims and checks the most claim-like one.

Example:
  truthlens scan https://example.com/news/story
  truthlens scan https://example.com/post --json report.json --md report.md
  truthlens scan https://example.com/post --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (- for stdout)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "persist the verdict and update trends")

	// HTTP flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default from config)")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read (default from config)")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fact-check cache")
	scanCmd.Flags().BoolVar(&noRobots, "no-robots", false, "ignore robots.txt")
	scanCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	scanCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	scanCmd.Flags().BoolVar(&checkLinks, "check-links", false, "verify that cited fact-check reviews are reachable")

	scanLLM.register(scanCmd)
}

// applyHTTPFlags copies the fetch flags that were set onto the config
func applyHTTPFlags() {
	if timeout > 0 {
		cfg.HTTP.Timeout = timeout
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	cfg.HTTP.InsecureTLS = cfg.HTTP.InsecureTLS || insecureTLS
	cfg.HTTP.CheckLinks = cfg.HTTP.CheckLinks || checkLinks
	cfg.HTTP.RespectRobots = cfg.HTTP.RespectRobots && !noRobots
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	applyHTTPFlags()
	if err := scanLLM.apply(cfg); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Robots: %v\n", cfg.HTTP.RespectRobots)
		fmt.Fprintln(os.Stderr)
	}

	e, err := buildEnv(ctx, cfg, scanSave)
	if err != nil {
		return err
	}
	defer e.Close()

	report, err := e.Pipeline.CheckURL(ctx, url)
	if err != nil {
		return eris.Wrap(err, "scan failed")
	}

	if verbose {
		if report.Extraction != nil {
			fmt.Fprintf(os.Stderr, "Extracted %d candidate claims\n", len(report.Extraction.Claims))
		}
		fmt.Fprintf(os.Stderr, "Credibility: %.1f/10\n", report.Result.CredibilityScore)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	summaryOut := cmd.OutOrStdout()
	if outJSON == "-" {
		summaryOut = os.Stderr
	}
	return e.Pipeline.Render(report, outJSON, outMD, summaryOut)
}
