package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS results (
        id              TEXT PRIMARY KEY,
        user_id         TEXT NOT NULL,
        role            TEXT NOT NULL,
        transcript_json TEXT NOT NULL,
        scores_json     TEXT NOT NULL,
        summary         TEXT NOT NULL DEFAULT '',
        created_at      TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_results_user ON results(user_id)`,
	`CREATE TABLE IF NOT EXISTS certificates (
        id         TEXT PRIMARY KEY,
        user_id    TEXT NOT NULL,
        role       TEXT NOT NULL,
        score      INTEGER NOT NULL,
        minted     INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_certificates_user ON certificates(user_id)`,
	`CREATE TABLE IF NOT EXISTS resume_analyses (
        id            TEXT PRIMARY KEY,
        user_id       TEXT NOT NULL,
        analysis_json TEXT NOT NULL,
        created_at    TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_resume_analyses_user ON resume_analyses(user_id)`,
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
