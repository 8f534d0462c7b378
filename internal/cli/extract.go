package cli

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/pipeline"
)

var (
	extractFile     string
	extractKeywords int
)

type extractOutput struct {
	model.Extraction
	Quality  model.TextQuality `json:"quality"`
	Keywords []string          `json:"keywords"`
}

// extractCmd prints the candidate claims found in text
var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract candidate claims from text",
	Long: `Extract splits text into sentences and scores each as a candidate claim.
Output is JSON: the claims in sentence order, text quality statistics
and the most frequent keywords.

Example:
  truthlens extract "According to a new study, 40% of adults skip breakfast."
  truthlens extract --file post.txt`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractFile, "file", "", "read text from file")
	extractCmd.Flags().IntVar(&extractKeywords, "keywords", 10, "maximum keywords to report")
}

func runExtract(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if extractFile != "" {
		data, err := os.ReadFile(extractFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", extractFile)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return eris.New("no text given (pass text or --file)")
	}

	engine, err := pipeline.NewEngine(cfg, nil)
	if err != nil {
		return err
	}

	return pipeline.WriteJSON(cmd.OutOrStdout(), extractOutput{
		Extraction: engine.ExtractClaims(cmd.Context(), text),
		Quality:    engine.TextQuality(text),
		Keywords:   engine.Keywords(text, extractKeywords),
	})
}
