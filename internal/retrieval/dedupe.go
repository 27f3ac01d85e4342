package retrieval

import (
	"strings"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/framework"
)

// DedupKey identifies an entry by id, else by name, else by the first eight
// hex digits of its base prompt hash.
func DedupKey(e *framework.Entry) string {
	switch {
	case e.ID != "":
		return "id:" + e.ID
	case e.Name != "":
		return "name:" + strings.ToLower(e.Name)
	default:
		return "prompt:" + cache.Hash(e.BasePrompt)[:8]
	}
}

// Dedupe merges candidates sharing a DedupKey, keeping the one with the
// higher semantic score. First-seen order is preserved.
func Dedupe(candidates []framework.Candidate) []framework.Candidate {
	index := make(map[string]int, len(candidates))
	out := make([]framework.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Entry == nil {
			continue
		}
		key := DedupKey(c.Entry)
		if i, ok := index[key]; ok {
			if c.SemanticScore > out[i].SemanticScore {
				out[i] = c
			}
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}

// Merge combines lexical candidates with semantic hits.
func Merge(lexical, semantic []framework.Candidate) []framework.Candidate {
	all := make([]framework.Candidate, 0, len(lexical)+len(semantic))
	all = append(all, lexical...)
	all = append(all, semantic...)
	return Dedupe(all)
}
