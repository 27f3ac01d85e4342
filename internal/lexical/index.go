// Package lexical implements the weighted fuzzy index over framework names,
// categories and descriptions.
//
// Scores follow the convention of the fuzzy-search family this replaces:
// 0 is a perfect match and 1 is no match. Each field that matches
// contributes (1-similarity)^weight to a product, so a strong hit on a heavy
// field pulls the score toward 0 while unmatched fields are ignored.
package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/Freekyn/Promptin/internal/framework"
)

// Field weights.
const (
	WeightName        = 0.4
	WeightCategory    = 0.3
	WeightDescription = 0.2
)

// Defaults applied when Options leaves a value unset.
const (
	DefaultThreshold  = 0.6
	DefaultMaxResults = 10
	MinQueryLength    = 2

	// minTokenSimilarity is the floor below which a token pair is not a match.
	minTokenSimilarity = 0.6
	epsilon            = 1e-3
)

// Options tune one search.
type Options struct {
	Threshold  float64
	MaxResults int
}

// Hit is one matching entry and its score (0 best, 1 worst).
type Hit struct {
	Entry *framework.Entry
	Score float64
}

type field struct {
	weight float64
	text   string
	tokens []string
}

type document struct {
	entry  *framework.Entry
	fields []field
}

// Index is immutable once built; rebuild it when the corpus changes.
type Index struct {
	docs []document
}

// Build indexes entries. The slice is not retained, the entries are.
func Build(entries []*framework.Entry) *Index {
	total := WeightName + WeightCategory + WeightDescription
	docs := make([]document, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		docs = append(docs, document{
			entry: e,
			fields: []field{
				newField(e.Name, WeightName/total),
				newField(e.Category, WeightCategory/total),
				newField(e.Description, WeightDescription/total),
			},
		})
	}
	return &Index{docs: docs}
}

func newField(text string, weight float64) field {
	lower := strings.ToLower(text)
	return field{weight: weight, text: lower, tokens: Tokenize(lower)}
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.docs)
}

// Search returns entries scoring at or below the threshold, best first.
func (ix *Index) Search(query string, opts Options) []Hit {
	if ix == nil {
		return nil
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < MinQueryLength {
		return nil
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	qTokens := Tokenize(query)
	if len(qTokens) == 0 {
		return nil
	}

	var hits []Hit
	for _, d := range ix.docs {
		score, ok := scoreDocument(d, query, qTokens)
		if !ok || score > opts.Threshold {
			continue
		}
		hits = append(hits, Hit{Entry: d.entry, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score < hits[j].Score
		}
		return hits[i].Entry.Name < hits[j].Entry.Name
	})
	if len(hits) > opts.MaxResults {
		hits = hits[:opts.MaxResults]
	}
	return hits
}

func scoreDocument(d document, query string, qTokens []string) (float64, bool) {
	total := 1.0
	matched := false
	for _, f := range d.fields {
		sim := fieldSimilarity(f, query, qTokens)
		if sim <= 0 {
			continue
		}
		matched = true
		total *= math.Pow(math.Max(1-sim, epsilon), f.weight)
	}
	return total, matched
}

// fieldSimilarity is 1 for a verbatim containment, otherwise the mean best
// token similarity across query tokens.
func fieldSimilarity(f field, query string, qTokens []string) float64 {
	if f.text == "" {
		return 0
	}
	if strings.Contains(f.text, query) {
		return 1
	}
	var sum float64
	for _, q := range qTokens {
		best := 0.0
		for _, t := range f.tokens {
			if s := TokenSimilarity(q, t); s > best {
				best = s
			}
		}
		sum += best
	}
	return sum / float64(len(qTokens))
}

// TokenSimilarity returns a [0,1] similarity between two lower-cased tokens.
// A prefix match counts fully; otherwise normalized Levenshtein distance.
func TokenSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b || (len(a) >= 3 && strings.HasPrefix(b, a)) {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	sim := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
	if sim < minTokenSimilarity {
		return 0
	}
	return sim
}

// Tokenize splits lower-cased text on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
