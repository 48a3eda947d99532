package store

// schemaVersion is the current schema for fresh databases.
const schemaVersion = 1

var schema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS story_details (
	sprint            TEXT NOT NULL,
	story_id          INTEGER NOT NULL,
	title             TEXT,
	assignee          TEXT,
	story_type        TEXT,
	ac_quality        REAL,
	coverage          REAL,
	scenario_coverage REAL,
	test_depth        REAL,
	governance        REAL,
	performance       REAL,
	risk              TEXT,
	compliance        TEXT,
	advisory_applied  INTEGER NOT NULL DEFAULT 0,
	advisory_reason   TEXT,
	created_at        TEXT NOT NULL,
	PRIMARY KEY (story_id, sprint)
);

CREATE INDEX IF NOT EXISTS idx_story_sprint ON story_details (sprint);
CREATE INDEX IF NOT EXISTS idx_story_assignee ON story_details (assignee);
CREATE INDEX IF NOT EXISTS idx_story_risk ON story_details (risk);

CREATE TABLE IF NOT EXISTS sprint_history (
	run_date           TEXT NOT NULL,
	sprint             TEXT NOT NULL,
	assignee           TEXT NOT NULL,
	stories            INTEGER NOT NULL,
	coverage           REAL,
	scenario_coverage  REAL,
	test_depth         REAL,
	governance         REAL,
	ac_quality         REAL,
	performance        REAL,
	high_risk          REAL,
	process_compliance REAL,
	PRIMARY KEY (sprint, assignee)
);

CREATE INDEX IF NOT EXISTS idx_history_assignee ON sprint_history (assignee);
`
