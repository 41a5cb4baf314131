// Package store persists interview results, certificates, and resume
// analyses in SQLite. Records are append-only: single-record inserts and
// queries by user, with the certificate mint flag as the only update.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"drill"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Result is one completed interview saved for a user.
type Result struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	Role       string             `json:"role"`
	Transcript []drill.Turn       `json:"transcript"`
	Scores     []drill.ScoreEntry `json:"scores"`
	Summary    string             `json:"summary"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Certificate is an interview completion certificate. Minted starts false
// and can be flipped exactly once semantically; re-minting is a no-op.
type Certificate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Score     int       `json:"score"`
	Minted    bool      `json:"minted"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResumeAnalysis is an opaque analysis payload saved for a user.
type ResumeAnalysis struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Analysis  json.RawMessage `json:"analysis"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store manages persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveResult inserts one interview result and returns it with its assigned
// identifier.
func (s *Store) SaveResult(ctx context.Context, r Result) (Result, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()

	transcriptJSON, err := json.Marshal(r.Transcript)
	if err != nil {
		return Result{}, fmt.Errorf("marshal transcript: %w", err)
	}
	scoresJSON, err := json.Marshal(r.Scores)
	if err != nil {
		return Result{}, fmt.Errorf("marshal scores: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO results (id, user_id, role, transcript_json, scores_json, summary, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Role, string(transcriptJSON), string(scoresJSON), r.Summary,
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Result{}, fmt.Errorf("insert result: %w", err)
	}
	return r, nil
}

// ListResults returns all results for a user, newest first.
func (s *Store) ListResults(ctx context.Context, userID string) ([]Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, role, transcript_json, scores_json, summary, created_at
         FROM results WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r                          Result
			transcriptJSON, scoresJSON string
			createdAt                  string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Role, &transcriptJSON, &scoresJSON, &r.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(transcriptJSON), &r.Transcript); err != nil {
			return nil, fmt.Errorf("unmarshal transcript: %w", err)
		}
		if err := json.Unmarshal([]byte(scoresJSON), &r.Scores); err != nil {
			return nil, fmt.Errorf("unmarshal scores: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveCertificate inserts one certificate with the mint flag cleared.
func (s *Store) SaveCertificate(ctx context.Context, c Certificate) (Certificate, error) {
	c.ID = uuid.NewString()
	c.Minted = false
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO certificates (id, user_id, role, score, minted, created_at)
         VALUES (?, ?, ?, ?, 0, ?)`,
		c.ID, c.UserID, c.Role, c.Score, c.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Certificate{}, fmt.Errorf("insert certificate: %w", err)
	}
	return c, nil
}

// ListCertificates returns all certificates for a user, newest first.
func (s *Store) ListCertificates(ctx context.Context, userID string) ([]Certificate, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, role, score, minted, created_at
         FROM certificates WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query certificates: %w", err)
	}
	defer rows.Close()

	var out []Certificate
	for rows.Next() {
		var (
			c         Certificate
			minted    int
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Role, &c.Score, &minted, &createdAt); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		c.Minted = minted != 0
		if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkCertificateMinted flips the mint flag on a certificate.
func (s *Store) MarkCertificateMinted(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE certificates SET minted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark minted: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveResumeAnalysis inserts one resume analysis.
func (s *Store) SaveResumeAnalysis(ctx context.Context, a ResumeAnalysis) (ResumeAnalysis, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()

	analysis := a.Analysis
	if analysis == nil {
		analysis = json.RawMessage("{}")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO resume_analyses (id, user_id, analysis_json, created_at)
         VALUES (?, ?, ?, ?)`,
		a.ID, a.UserID, string(analysis), a.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ResumeAnalysis{}, fmt.Errorf("insert resume analysis: %w", err)
	}
	a.Analysis = analysis
	return a, nil
}

// ListResumeAnalyses returns all resume analyses for a user, newest first.
func (s *Store) ListResumeAnalyses(ctx context.Context, userID string) ([]ResumeAnalysis, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, analysis_json, created_at
         FROM resume_analyses WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query resume analyses: %w", err)
	}
	defer rows.Close()

	var out []ResumeAnalysis
	for rows.Next() {
		var (
			a            ResumeAnalysis
			analysisJSON string
			createdAt    string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &analysisJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan resume analysis: %w", err)
		}
		a.Analysis = json.RawMessage(analysisJSON)
		if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
