package intent

import (
	"regexp"
	"strings"

	"github.com/Freekyn/Promptin/internal/llm"
)

const longRequestChars = 500

var (
	complexVerbs = regexp.MustCompile(`analyze|compare|evaluate|strategy|comprehensive`)
	recencyWords = regexp.MustCompile(`latest|current|2024|2025|recent`)
	codeTokens   = regexp.MustCompile(`function|class|def|import|require`)
)

// SelectTier picks the model tier for classifying text. Long, comparative,
// time-sensitive and fenced-code requests go to the capable tier; other
// code-like requests to the code tier; everything else to the cheap tier.
func SelectTier(text string) llm.Tier {
	lower := strings.ToLower(text)
	switch {
	case len(text) > longRequestChars,
		strings.Contains(text, "```"),
		complexVerbs.MatchString(lower),
		recencyWords.MatchString(lower):
		return llm.TierCapable
	case codeTokens.MatchString(text):
		return llm.TierCode
	default:
		return llm.TierCheap
	}
}
