// Package promptgen builds ready-to-paste prompts from a request, its intent
// analysis and the selected framework.
package promptgen

import (
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
)

// Strategy is a reasoning scaffold for meta-prompts.
type Strategy string

const (
	ChainOfThought Strategy = "chain_of_thought"
	TreeOfThought  Strategy = "tree_of_thought"
	ReAct          Strategy = "react"
	SelfCritique   Strategy = "self_critique"
	ExpertPanel    Strategy = "expert_panel"
	Socratic       Strategy = "socratic"
)

// Strategies lists every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{ChainOfThought, TreeOfThought, ReAct, SelfCritique, ExpertPanel, Socratic}
}

// ParseStrategy maps a label such as "tree-of-thought" to a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	label := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, st := range Strategies() {
		if st == label {
			return st, true
		}
	}
	return "", false
}

// SelectStrategy picks the strategy for an analysis. An explicit reasoning
// type naming a strategy wins; otherwise complexity, then intent decide.
func SelectStrategy(a framework.IntentAnalysis) Strategy {
	if st, ok := ParseStrategy(a.ReasoningType); ok {
		return st
	}
	if a.Complexity == framework.ComplexityExpert || a.Complexity == framework.ComplexityComplex {
		return TreeOfThought
	}
	switch a.Intent {
	case "research", "analysis":
		return Socratic
	case "technical", "problem_solving":
		return ReAct
	case "business_strategy", "decision_making":
		return ExpertPanel
	case "creative_writing", "content_creation":
		return ChainOfThought
	default:
		return SelfCritique
	}
}

// Techniques names what a strategy applies, for display.
func Techniques(s Strategy) []string {
	switch s {
	case ChainOfThought:
		return []string{"Explicit reasoning", "Step-by-step analysis", "Assumption validation"}
	case TreeOfThought:
		return []string{"Multi-path exploration", "Comparative evaluation", "Solution synthesis"}
	case ReAct:
		return []string{"Iterative reasoning", "Action-observation cycles", "Adaptive problem-solving"}
	case SelfCritique:
		return []string{"Self-review", "Weakness identification", "Iterative refinement"}
	case ExpertPanel:
		return []string{"Multi-perspective analysis", "Collaborative reasoning", "Consensus building"}
	case Socratic:
		return []string{"Question-driven inquiry", "Assumption challenging", "Deep understanding"}
	default:
		return []string{"Advanced reasoning"}
	}
}

// Expertise describes the persona a meta-prompt assigns.
type Expertise struct {
	Credentials string
	Methodology string
	Validation  string
}

// ExpertiseFor returns the persona for a domain, business when unknown.
func ExpertiseFor(domain string) Expertise {
	switch domain {
	case "technical", "technology":
		return Expertise{
			Credentials: "Senior Staff Engineer with 15+ years at FAANG companies, specializing in distributed systems, cloud architecture, and performance optimization",
			Methodology: "Systems thinking, design patterns, scalability analysis",
			Validation:  "Code review standards, performance benchmarks, security audits",
		}
	case "creative":
		return Expertise{
			Credentials: "Award-winning creative director with portfolio spanning advertising, film, and digital media",
			Methodology: "Design thinking, storytelling frameworks, user journey mapping",
			Validation:  "A/B testing, user feedback, engagement metrics",
		}
	case "data_science", "data_analysis":
		return Expertise{
			Credentials: "PhD in Statistics, former lead data scientist at major tech company, published researcher",
			Methodology: "Statistical inference, machine learning pipelines, experimental design",
			Validation:  "Cross-validation, significance testing, model evaluation metrics",
		}
	case "marketing":
		return Expertise{
			Credentials: "CMO with track record of 10x growth, expertise in growth hacking and brand strategy",
			Methodology: "AARRR funnel, customer segmentation, attribution modeling",
			Validation:  "Conversion metrics, ROI analysis, brand sentiment tracking",
		}
	case "research":
		return Expertise{
			Credentials: "Published academic researcher with expertise in systematic literature review and meta-analysis",
			Methodology: "Scientific method, systematic review protocols, evidence synthesis",
			Validation:  "Peer review standards, citation analysis, reproducibility checks",
		}
	default:
		return Expertise{
			Credentials: "MBA from top-tier institution, former McKinsey consultant, 20+ years in strategy and operations",
			Methodology: "Porter's Five Forces, SWOT analysis, OKR frameworks, Business Model Canvas",
			Validation:  "Financial modeling, market analysis, risk assessment",
		}
	}
}
