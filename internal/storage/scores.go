package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultScoreLimit is used by TopScores when limit <= 0.
const DefaultScoreLimit = 10

// ScoreEntry represents one finished run.
type ScoreEntry struct {
	ID        int64
	RunID     string
	SceneID   string
	Score     int
	CreatedAt time.Time
}

// SaveScore records the final score of a run. Recording the same run twice
// keeps the first record.
func (s *Store) SaveScore(ctx context.Context, runID, sceneID string, score int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (run_id, scene_id, score) VALUES (?, ?, ?) ON CONFLICT(run_id) DO NOTHING",
		runID, sceneID, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// TopScores retrieves the top N scores for a scene, or for all scenes when
// sceneID is empty. Results are ordered by score descending.
func (s *Store) TopScores(ctx context.Context, sceneID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultScoreLimit
	}
	return s.queryScores(ctx,
		`SELECT id, run_id, scene_id, score, created_at
		 FROM scores
		 WHERE (? = '' OR scene_id = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		sceneID, sceneID, limit,
	)
}

// AllScores retrieves every score for a scene (no limit).
func (s *Store) AllScores(ctx context.Context, sceneID string) ([]ScoreEntry, error) {
	return s.queryScores(ctx,
		`SELECT id, run_id, scene_id, score, created_at
		 FROM scores
		 WHERE (? = '' OR scene_id = ?)
		 ORDER BY score DESC, id ASC`,
		sceneID, sceneID,
	)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.SceneID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for a scene, or across all scenes when
// sceneID is empty. Returns 0 if no scores exist.
func (s *Store) HighScore(ctx context.Context, sceneID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE (? = '' OR scene_id = ?)",
		sceneID, sceneID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for a scene, or every score when sceneID is empty.
func (s *Store) ClearScores(ctx context.Context, sceneID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM scores WHERE (? = '' OR scene_id = ?)", sceneID, sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
