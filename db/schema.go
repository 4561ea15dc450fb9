// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is written once and runs unchanged on both PostgreSQL and
// SQLite: no serial columns, no NOW(), no JSONB. Timestamps are supplied
// by the application.
const schema = `
-- Teams (managed externally, read-only to the assignment engine)
CREATE TABLE IF NOT EXISTS team (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    table_location TEXT,
    division TEXT
);

-- Judges (managed externally, read-only to the assignment engine)
CREATE TABLE IF NOT EXISTS judge (
    email TEXT PRIMARY KEY,
    name TEXT,
    role TEXT NOT NULL DEFAULT 'judge' CHECK (role IN ('judge', 'admin'))
);

-- Assignments: one row per judging slot a judge has claimed.
-- Rows are never deleted; completed never reverts.
CREATE TABLE IF NOT EXISTS assignment (
    id TEXT PRIMARY KEY,
    judge_email TEXT NOT NULL REFERENCES judge(email),
    team_id TEXT NOT NULL REFERENCES team(id),
    round INTEGER NOT NULL CHECK (round > 0),
    assigned_at TIMESTAMP NOT NULL,
    locked_at TIMESTAMP,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (judge_email, team_id, round)
);

CREATE INDEX IF NOT EXISTS idx_assignment_team_round ON assignment(team_id, round);
CREATE INDEX IF NOT EXISTS idx_assignment_judge ON assignment(judge_email);

-- Scores: recorded on completion, never read by the engine
CREATE TABLE IF NOT EXISTS score (
    id TEXT PRIMARY KEY,
    judge_email TEXT NOT NULL,
    team_id TEXT NOT NULL,
    round INTEGER NOT NULL,
    value REAL NOT NULL,
    notes TEXT,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (judge_email, team_id, round)
);

CREATE INDEX IF NOT EXISTS idx_score_team_round ON score(team_id, round);
`
