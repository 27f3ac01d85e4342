package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Freekyn/Promptin/internal/framework"
)

// DatabaseFile is the name of the corpus database inside the storage directory.
const DatabaseFile = "frameworks.db"

// SQLiteStore persists framework entries in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the corpus database under basePath.
// basePath ":memory:" gives a private in-memory database.
func OpenSQLite(basePath string) (*SQLiteStore, error) {
	var dbPath string
	if basePath == ":memory:" {
		dbPath = ":memory:"
	} else {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("create corpus directory: %w", err)
		}
		dbPath = filepath.Join(basePath, DatabaseFile)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// DB exposes the handle so related stores (feedback) can share the file.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS frameworks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		base_prompt TEXT NOT NULL,
		tone_modifiers TEXT,
		role_variations TEXT,
		output_formats TEXT,
		platforms TEXT,
		models TEXT,
		domain_tags TEXT,
		complexity_level TEXT NOT NULL DEFAULT 'medium',
		token_estimate INTEGER NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'curated',
		details TEXT,                       -- JSON: methodology, principles, metrics, pitfalls
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_frameworks_category ON frameworks(category);
	CREATE INDEX IF NOT EXISTS idx_frameworks_source ON frameworks(source);
	`
	_, err := s.db.Exec(schema)
	return err
}

type entryDetails struct {
	Methodology    []string `json:"methodology,omitempty"`
	KeyPrinciples  []string `json:"key_principles,omitempty"`
	SuccessMetrics []string `json:"success_metrics,omitempty"`
	CommonPitfalls []string `json:"common_pitfalls,omitempty"`
}

// Insert writes a new entry. Existing ids are rejected with ErrDuplicateID
// because persisted prompts are immutable.
func (s *SQLiteStore) Insert(ctx context.Context, e *framework.Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	details, err := json.Marshal(entryDetails{
		Methodology:    e.Methodology,
		KeyPrinciples:  e.KeyPrinciples,
		SuccessMetrics: e.SuccessMetrics,
		CommonPitfalls: e.CommonPitfalls,
	})
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO frameworks (id, name, category, description, base_prompt,
			tone_modifiers, role_variations, output_formats, platforms, models, domain_tags,
			complexity_level, token_estimate, source, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Category, e.Description, e.BasePrompt,
		encodeList(e.ToneModifiers), encodeList(e.RoleVariations), encodeList(e.OutputFormats),
		encodeList(e.Platforms), encodeList(e.Models), encodeList(e.DomainTags),
		string(e.ComplexityLevel), e.TokenEstimate, string(e.Source), string(details),
		created.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		return fmt.Errorf("insert framework %s: %w", e.ID, err)
	}
	return nil
}

const selectColumns = `id, name, category, description, base_prompt,
	tone_modifiers, role_variations, output_formats, platforms, models, domain_tags,
	complexity_level, token_estimate, source, details, created_at`

// Load returns every persisted entry ordered by creation time.
func (s *SQLiteStore) Load(ctx context.Context) ([]*framework.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM frameworks ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query frameworks: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Get returns one entry or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*framework.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM frameworks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query framework: %w", err)
	}
	defer func() { _ = rows.Close() }()
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entries[0], nil
}

// SearchLike runs an exact substring match on name and description.
func (s *SQLiteStore) SearchLike(ctx context.Context, keyword, category string, limit int) ([]*framework.Entry, error) {
	pattern := "%" + keyword + "%"
	query := "SELECT " + selectColumns + " FROM frameworks WHERE (name LIKE ? OR description LIKE ?)"
	args := []any{pattern, pattern}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY name"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search frameworks: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// CategoryCount is one row of Stats.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes the persisted corpus.
type Stats struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Stats returns total and per-category counts, largest first.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM frameworks").Scan(&st.Total); err != nil {
		return st, fmt.Errorf("count frameworks: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS n FROM frameworks
		GROUP BY category ORDER BY n DESC, category`)
	if err != nil {
		return st, fmt.Errorf("category stats: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return st, err
		}
		st.Categories = append(st.Categories, c)
	}
	return st, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]*framework.Entry, error) {
	var out []*framework.Entry
	for rows.Next() {
		var (
			e                                              framework.Entry
			tones, roles, formats, platforms, models, tags sql.NullString
			details                                        sql.NullString
			complexity, source, created                    string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.BasePrompt,
			&tones, &roles, &formats, &platforms, &models, &tags,
			&complexity, &e.TokenEstimate, &source, &details, &created); err != nil {
			return nil, fmt.Errorf("scan framework: %w", err)
		}
		e.ToneModifiers = decodeList(tones)
		e.RoleVariations = decodeList(roles)
		e.OutputFormats = decodeList(formats)
		e.Platforms = decodeList(platforms)
		e.Models = decodeList(models)
		e.DomainTags = decodeList(tags)
		e.ComplexityLevel = framework.ParseComplexity(complexity)
		e.Source = framework.Source(source)
		if details.Valid && details.String != "" {
			var d entryDetails
			if err := json.Unmarshal([]byte(details.String), &d); err == nil {
				e.Methodology = d.Methodology
				e.KeyPrinciples = d.KeyPrinciples
				e.SuccessMetrics = d.SuccessMetrics
				e.CommonPitfalls = d.CommonPitfalls
			}
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// decodeList accepts a JSON array or a comma-separated string.
func decodeList(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err == nil {
		return out
	}
	return splitList(ns.String)
}

func isUniqueViolation(err error) bool {
	var target interface{ Code() int }
	if errors.As(err, &target) {
		// SQLITE_CONSTRAINT_PRIMARYKEY / SQLITE_CONSTRAINT_UNIQUE
		return target.Code() == 1555 || target.Code() == 2067
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
