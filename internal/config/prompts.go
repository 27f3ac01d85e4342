package config

// PromptIntentAnalysis asks the classifier model for a structured reading of
// one request. Fields: .Request, .Categories.
const PromptIntentAnalysis = `You are an intent analyst who understands what people need across every domain.

Analyze this request precisely:
"{{.Request}}"

Known categories: {{.Categories}}

Return a JSON object with exactly these fields:
1. "intent" - the primary goal, preferably one of the known categories
2. "secondary_intents" - array of secondary goals, may be empty
3. "domain" - the primary field or industry
4. "sub_domains" - array of related fields
5. "complexity" - "simple" | "medium" | "complex" | "expert"
6. "urgency" - "low" | "medium" | "high" | "critical"
7. "output_type" - the most suitable output format
8. "alternative_outputs" - array of other suitable formats
9. "tone_preference" - the tone that fits best
10. "suggested_role" - the expert role best suited to the task
11. "alternative_roles" - array of other suitable roles
12. "keywords" - array of 5-10 relevant keywords
13. "semantic_concepts" - array of abstract concepts behind the request
14. "reasoning_type" - the reasoning approach that fits (e.g. step_by_step, chain_of_thought, comparative)
15. "context_requirements" - what extra context would improve the answer
16. "success_criteria" - array describing what a successful answer achieves
17. "potential_challenges" - array of likely difficulties
18. "confidence_score" - integer 0-100, your confidence in this analysis
19. "novel_category" - a new category name if none of the known ones fit, otherwise null

Return only valid JSON, no explanations.
`

// PromptFrameworkSynthesis asks the synthesis model for a new framework when
// nothing in the corpus fits. Fields: .Request, .Intent, .Domain, .Complexity,
// .OutputType, .Role, .Tone, .Keywords, .SuccessCriteria.
const PromptFrameworkSynthesis = `You are a prompt-engineering expert who designs reusable prompt frameworks.

Design a framework for this request:
"{{.Request}}"

Analysis:
- Intent: {{.Intent}}
- Domain: {{.Domain}}
- Complexity: {{.Complexity}}
- Output type: {{.OutputType}}
- Expert role: {{.Role}}
- Tone: {{.Tone}}
- Keywords: {{.Keywords}}
- Success criteria: {{.SuccessCriteria}}

Return a JSON object with these fields:
{
  "name": "Short memorable framework name",
  "description": "One or two sentences on what the framework does",
  "base_prompt": "The reusable prompt. Use {USER_REQUEST} where the user's request goes, and {ROLE} and {TONE} where appropriate.",
  "methodology": ["Step 1", "Step 2", "Step 3"],
  "key_principles": ["Principle 1", "Principle 2"],
  "success_metrics": ["Metric 1", "Metric 2"],
  "common_pitfalls": ["Pitfall 1", "Pitfall 2"]
}

Return only valid JSON, no explanations.
`
