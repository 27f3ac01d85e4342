package synth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freekyn/Promptin/internal/framework"
)

const failsafePrompt = `Please help with: "%s"

Approach this systematically:
1. Understand the core request and objectives
2. Identify key requirements and constraints
3. Develop a comprehensive solution
4. Provide clear, actionable recommendations
5. Address potential challenges or edge cases

Focus on delivering practical value while maintaining %s tone.`

// Failsafe returns the generic five-step framework. It needs no provider and
// cannot fail. The entry is not persisted.
func Failsafe(a framework.IntentAnalysis, text string, at time.Time) *framework.Entry {
	tone := strings.TrimSpace(a.TonePreference)
	if tone == "" {
		tone = "professional"
	}
	complexity := a.Complexity
	if !complexity.Valid() {
		complexity = framework.ComplexityMedium
	}
	return &framework.Entry{
		ID:              "failsafe-" + strconv.FormatInt(at.UnixNano(), 10),
		Name:            FailsafeName,
		Category:        "Universal",
		Description:     "A flexible framework for addressing any request systematically",
		BasePrompt:      fmt.Sprintf(failsafePrompt, text, tone),
		ToneModifiers:   []string{tone},
		OutputFormats:   []string{"markdown", "document", "report"},
		Platforms:       []string{"ChatGPT", "Claude", "Gemini"},
		Models:          []string{"GPT-4o", "Claude-3-Opus", "Gemini-1.5-Pro"},
		DomainTags:      []string{"general", "adaptive"},
		ComplexityLevel: complexity,
		TokenEstimate:   200,
		Source:          framework.SourceFailsafe,
		Methodology: []string{
			"Understand the core request and objectives",
			"Identify key requirements and constraints",
			"Develop a comprehensive solution",
			"Provide clear, actionable recommendations",
			"Address potential challenges or edge cases",
		},
		CreatedAt: at,
	}
}
