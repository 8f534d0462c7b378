package analyze

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

// extremeLanguage are sensational phrases matched as plain substrings
var extremeLanguage = []string{
	"shocking", "unbelievable", "amazing", "incredible", "secret",
	"government cover-up", "they don't want you to know", "exposed",
	"breaking", "urgent", "conspiracy", "hoax",
}

// Analyze derives lexical signals from the claim text. It performs no I/O.
func Analyze(claimText string) model.InternalAnalysis {
	lower := strings.ToLower(claimText)

	return model.InternalAnalysis{
		ClaimText:          claimText,
		WordCount:          len(strings.Fields(claimText)),
		HasExtremeLanguage: util.ContainsAny(lower, extremeLanguage),
		HasNumbers:         util.HasDigit(claimText),
		HasURLs:            strings.Contains(lower, "http") || strings.Contains(lower, "www."),
		LengthScore:        math.Min(float64(utf8.RuneCountInString(claimText))/100, 1.0),
	}
}
