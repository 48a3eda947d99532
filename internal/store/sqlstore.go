package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// SqlStore persists story details and sprint history in SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path, creating the parent directory
// if needed.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unsupported schema version %d", v)
	}
	return nil
}

// Close closes the underlying database.
func (s *SqlStore) Close() error { return s.db.Close() }

// SaveStories upserts the sprint's story rows. Rerunning a sprint replaces
// its previous rows for the same stories.
func (s *SqlStore) SaveStories(records []StoryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO story_details (
			sprint, story_id, title, assignee, story_type,
			ac_quality, coverage, scenario_coverage, test_depth,
			governance, performance, risk, compliance,
			advisory_applied, advisory_reason, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := nowUTC()
	for _, r := range records {
		createdAt := r.CreatedAt
		if createdAt == "" {
			createdAt = now
		}
		if _, err := stmt.Exec(
			r.Sprint, r.StoryID, r.Title, r.Assignee, r.StoryType,
			r.ACQuality, r.Coverage, r.ScenarioCoverage, r.TestDepth,
			r.Governance, r.Performance, r.Risk, r.Compliance,
			boolToInt(r.AdvisoryApplied), r.AdvisoryReason, createdAt,
		); err != nil {
			return fmt.Errorf("insert story %d: %w", r.StoryID, err)
		}
	}

	return tx.Commit()
}

// Stories returns the persisted story rows for one sprint, ordered by
// story ID.
func (s *SqlStore) Stories(sprint string) ([]StoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT sprint, story_id, title, assignee, story_type,
		       ac_quality, coverage, scenario_coverage, test_depth,
		       governance, performance, risk, compliance,
		       advisory_applied, advisory_reason, created_at
		FROM story_details WHERE sprint = ? ORDER BY story_id`, sprint)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var out []StoryRecord
	for rows.Next() {
		var r StoryRecord
		var applied int
		if err := rows.Scan(
			&r.Sprint, &r.StoryID, &r.Title, &r.Assignee, &r.StoryType,
			&r.ACQuality, &r.Coverage, &r.ScenarioCoverage, &r.TestDepth,
			&r.Governance, &r.Performance, &r.Risk, &r.Compliance,
			&applied, &r.AdvisoryReason, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		r.AdvisoryApplied = applied != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveHistory replaces the sprint's per-assignee history rows with the given
// summaries, preventing duplicates when a sprint is rerun.
func (s *SqlStore) SaveHistory(sprint string, summaries []SprintSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sprint_history WHERE sprint = ?", sprint); err != nil {
		return fmt.Errorf("clear sprint history: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sprint_history (
			run_date, sprint, assignee, stories,
			coverage, scenario_coverage, test_depth,
			governance, ac_quality, performance,
			high_risk, process_compliance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := nowUTC()
	for _, h := range summaries {
		runDate := h.RunDate
		if runDate == "" {
			runDate = now
		}
		if _, err := stmt.Exec(
			runDate, sprint, h.Assignee, h.Stories,
			h.Coverage, h.ScenarioCoverage, h.TestDepth,
			h.Governance, h.ACQuality, h.Performance,
			h.HighRiskPct, h.CompliancePct,
		); err != nil {
			return fmt.Errorf("insert history for %s: %w", h.Assignee, err)
		}
	}

	return tx.Commit()
}

// History returns all persisted sprint summaries ordered by run date, oldest
// first. Trend analysis consumes this ordering directly.
func (s *SqlStore) History() ([]SprintSummary, error) {
	rows, err := s.db.Query(`
		SELECT run_date, sprint, assignee, stories,
		       coverage, scenario_coverage, test_depth,
		       governance, ac_quality, performance,
		       high_risk, process_compliance
		FROM sprint_history ORDER BY run_date, assignee`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SprintSummary
	for rows.Next() {
		var h SprintSummary
		if err := rows.Scan(
			&h.RunDate, &h.Sprint, &h.Assignee, &h.Stories,
			&h.Coverage, &h.ScenarioCoverage, &h.TestDepth,
			&h.Governance, &h.ACQuality, &h.Performance,
			&h.HighRiskPct, &h.CompliancePct,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
