package intent

import (
	"sort"
	"strings"
	"sync"
)

// SeedCategories are known before any request is classified.
var SeedCategories = []string{
	"data_analysis",
	"content_creation",
	"problem_solving",
	"creative_writing",
	"technical",
	"research",
	"business_strategy",
	"marketing",
	"music",
	"entertainment",
	"education",
	"healthcare",
	"legal",
	"financial",
}

// CategorySet is the process-wide set of known request categories. It grows
// when the classifier proposes a confident novel category. It is
// informational and never affects scoring.
type CategorySet struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// NewCategorySet returns a set holding SeedCategories.
func NewCategorySet() *CategorySet {
	cs := &CategorySet{set: make(map[string]struct{}, len(SeedCategories))}
	for _, c := range SeedCategories {
		cs.set[c] = struct{}{}
	}
	return cs
}

// Add registers category and reports whether it was new.
func (cs *CategorySet) Add(category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.set[category]; ok {
		return false
	}
	cs.set[category] = struct{}{}
	return true
}

func (cs *CategorySet) Has(category string) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	_, ok := cs.set[category]
	return ok
}

// List returns the categories sorted.
func (cs *CategorySet) List() []string {
	cs.mu.RLock()
	out := make([]string, 0, len(cs.set))
	for c := range cs.set {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	sort.Strings(out)
	return out
}
