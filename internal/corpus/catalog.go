// Package corpus owns the framework corpus: persistence, the in-memory
// snapshot served to requests, and the lexical index built over it.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/lexical"
)

var (
	ErrNotFound     = errors.New("framework not found")
	ErrDuplicateID  = errors.New("framework id already exists")
	ErrInvalidEntry = errors.New("invalid framework entry")
)

// WriteError reports a failed append. The corpus is unchanged when it is
// returned.
type WriteError struct {
	ID  string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("corpus write %s: %v", e.ID, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError reports whether err is a corpus write failure.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

// SearchOptions narrow a keyword search.
type SearchOptions struct {
	Category   string
	MaxResults int
	Threshold  float64
	// Exact switches from fuzzy matching to a case-insensitive substring
	// match on name and description.
	Exact bool
}

// Store is the corpus contract consumed by the engine.
type Store interface {
	All(ctx context.Context) ([]*framework.Entry, error)
	ByID(ctx context.Context, id string) (*framework.Entry, error)
	Search(ctx context.Context, keyword string, opts SearchOptions) ([]*framework.Entry, error)
	Append(ctx context.Context, e *framework.Entry) error
}

// Persister is the durable side of a Catalog.
type Persister interface {
	Insert(ctx context.Context, e *framework.Entry) error
	Load(ctx context.Context) ([]*framework.Entry, error)
}

type snapshot struct {
	entries []*framework.Entry
	byID    map[string]*framework.Entry
	index   *lexical.Index
}

func newSnapshot(entries []*framework.Entry) *snapshot {
	byID := make(map[string]*framework.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &snapshot{entries: entries, byID: byID, index: lexical.Build(entries)}
}

// Catalog serves reads from an immutable snapshot and applies writes by
// building a new snapshot under a mutex and swapping it in. Readers never
// block and never observe a half-built index.
type Catalog struct {
	mu      sync.Mutex
	current atomic.Pointer[snapshot]
	persist Persister
	logger  *slog.Logger
}

// NewCatalog loads every entry from persist. A nil persister gives a
// memory-only catalog.
func NewCatalog(ctx context.Context, persist Persister, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{persist: persist, logger: logger}
	var entries []*framework.Entry
	if persist != nil {
		loaded, err := persist.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		entries = loaded
	}
	c.current.Store(newSnapshot(entries))
	logger.Debug("corpus loaded", "frameworks", len(entries))
	return c, nil
}

// NewMemoryCatalog builds a memory-only catalog over entries.
func NewMemoryCatalog(entries []*framework.Entry) *Catalog {
	c := &Catalog{logger: slog.Default()}
	c.current.Store(newSnapshot(append([]*framework.Entry(nil), entries...)))
	return c
}

// All returns the current entries. The slice must not be modified.
func (c *Catalog) All(_ context.Context) ([]*framework.Entry, error) {
	return c.current.Load().entries, nil
}

// Len returns the number of entries in the current snapshot.
func (c *Catalog) Len() int { return len(c.current.Load().entries) }

// ByID returns the entry with id or ErrNotFound.
func (c *Catalog) ByID(_ context.Context, id string) (*framework.Entry, error) {
	if e, ok := c.current.Load().byID[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Search runs a keyword query against the current snapshot.
func (c *Catalog) Search(_ context.Context, keyword string, opts SearchOptions) ([]*framework.Entry, error) {
	snap := c.current.Load()
	limit := opts.MaxResults
	if limit <= 0 {
		limit = lexical.DefaultMaxResults
	}

	var out []*framework.Entry
	if opts.Exact {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw == "" {
			return nil, nil
		}
		for _, e := range snap.entries {
			if opts.Category != "" && e.Category != opts.Category {
				continue
			}
			if strings.Contains(strings.ToLower(e.Name), kw) || strings.Contains(strings.ToLower(e.Description), kw) {
				out = append(out, e)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	} else {
		// filter after ranking, so fetch everything that clears the threshold
		hits := snap.index.Search(keyword, lexical.Options{Threshold: opts.Threshold, MaxResults: snap.index.Len()})
		for _, h := range hits {
			if opts.Category != "" && h.Entry.Category != opts.Category {
				continue
			}
			out = append(out, h.Entry)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Append adds a new entry and rebuilds the index as one critical section.
// On persistence failure the snapshot is left untouched and a *WriteError is
// returned.
func (c *Catalog) Append(ctx context.Context, e *framework.Entry) error {
	if err := framework.ValidateEntry(e); err != nil {
		return &WriteError{ID: idOf(e), Err: fmt.Errorf("%w: %v", ErrInvalidEntry, err)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.current.Load()
	if _, exists := old.byID[e.ID]; exists {
		return &WriteError{ID: e.ID, Err: ErrDuplicateID}
	}
	if c.persist != nil {
		if err := c.persist.Insert(ctx, e); err != nil {
			return &WriteError{ID: e.ID, Err: err}
		}
	}

	entries := make([]*framework.Entry, len(old.entries), len(old.entries)+1)
	copy(entries, old.entries)
	entries = append(entries, e)
	c.current.Store(newSnapshot(entries))
	return nil
}

// Import appends entries, skipping invalid ones and ids already present.
// It returns how many were added and how many were skipped.
func (c *Catalog) Import(ctx context.Context, entries []*framework.Entry) (added, skipped int, err error) {
	for _, e := range entries {
		if appendErr := c.Append(ctx, e); appendErr != nil {
			if errors.Is(appendErr, ErrDuplicateID) || errors.Is(appendErr, ErrInvalidEntry) {
				c.logger.Debug("skipping framework", "id", idOf(e), "reason", appendErr)
				skipped++
				continue
			}
			return added, skipped, appendErr
		}
		added++
	}
	return added, skipped, nil
}

// Categories returns the distinct categories in the current snapshot, sorted.
func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	for _, e := range c.current.Load().entries {
		if e.Category != "" {
			seen[e.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func idOf(e *framework.Entry) string {
	if e == nil {
		return ""
	}
	return e.ID
}

var _ Store = (*Catalog)(nil)
