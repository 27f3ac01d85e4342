package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteState persists learner state in the corpus database.
type SQLiteState struct {
	db *sql.DB
}

// NewSQLiteState creates the feedback tables on db if needed.
func NewSQLiteState(db *sql.DB) (*SQLiteState, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback_weights (
		category TEXT NOT NULL,
		intent TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 1.0,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (category, intent)
	);

	CREATE TABLE IF NOT EXISTS recommendations (
		request_key TEXT PRIMARY KEY,
		request_text TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		intent TEXT NOT NULL DEFAULT '',
		framework_id TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_hash TEXT NOT NULL,
		request_text TEXT NOT NULL,
		framework_id TEXT NOT NULL DEFAULT '',
		intent TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_user_feedback_framework ON user_feedback(framework_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init feedback schema: %w", err)
	}
	return &SQLiteState{db: db}, nil
}

func (s *SQLiteState) SaveWeight(ctx context.Context, w Weight) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_weights (category, intent, weight, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category, intent) DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at`,
		w.Category, w.Intent, w.Value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save weight: %w", err)
	}
	return nil
}

func (s *SQLiteState) SaveDecision(ctx context.Context, d Decision) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations (request_key, request_text, category, intent, framework_id, rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_key) DO UPDATE SET
			request_text = excluded.request_text,
			category = excluded.category,
			intent = excluded.intent,
			framework_id = excluded.framework_id,
			rating = excluded.rating,
			created_at = excluded.created_at`,
		d.Key, d.RequestText, d.Category, d.Intent, d.FrameworkID, d.Rating, d.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	return nil
}

func (s *SQLiteState) SaveEvent(ctx context.Context, ev Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_feedback (request_hash, request_text, framework_id, intent, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.RequestHash, ev.RequestText, ev.FrameworkID, ev.Intent, ev.Rating, ev.Comment, ev.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

func (s *SQLiteState) LoadWeights(ctx context.Context) ([]Weight, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, intent, weight FROM feedback_weights`)
	if err != nil {
		return nil, fmt.Errorf("query weights: %w", err)
	}
	defer rows.Close()

	var out []Weight
	for rows.Next() {
		var w Weight
		if err := rows.Scan(&w.Category, &w.Intent, &w.Value); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLiteState) LoadDecisions(ctx context.Context) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_key, request_text, category, intent, framework_id, rating, created_at
		FROM recommendations`)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		var created string
		if err := rows.Scan(&d.Key, &d.RequestText, &d.Category, &d.Intent, &d.FrameworkID, &d.Rating, &created); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats summarizes the feedback sink.
type Stats struct {
	Events        int     `json:"events"`
	AverageRating float64 `json:"average_rating"`
}

// Stats returns the number of feedback events and their mean rating.
func (s *SQLiteState) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), AVG(rating) FROM user_feedback`).Scan(&st.Events, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("feedback stats: %w", err)
	}
	st.AverageRating = avg.Float64
	return st, nil
}
