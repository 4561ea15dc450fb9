// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenUnknownType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected an error for an unsupported database type")
	}
}

func TestOpenSQLiteAndCreateSchema(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}
	// IF NOT EXISTS: running it again is safe.
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Repeat CreateSchema failed: %v", err)
	}

	for _, table := range []string{"team", "judge", "assignment", "score"} {
		var n int
		err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
		if err != nil {
			t.Errorf("Table %s missing after CreateSchema: %v", table, err)
		}
	}
}

func TestSchemaEnforcesUniqueSlot(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	mustExec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := conn.Exec(query, args...); err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
	}
	mustExec("INSERT INTO team (id, name) VALUES ('t1', 'Alpha')")
	mustExec("INSERT INTO judge (email) VALUES ('a@x.com')")
	mustExec(`INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, completed)
		VALUES ('a1', 'a@x.com', 't1', 1, '2026-01-01 10:00:00', FALSE)`)

	_, err = conn.Exec(`INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, completed)
		VALUES ('a2', 'a@x.com', 't1', 1, '2026-01-01 10:00:01', FALSE)`)
	if err == nil {
		t.Fatal("Expected a unique constraint violation for a duplicate slot")
	}
	if !strings.Contains(err.Error(), "UNIQUE") {
		t.Errorf("Expected UNIQUE violation, got: %v", err)
	}

	// A different round for the same pair is a separate slot.
	mustExec(`INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, completed)
		VALUES ('a3', 'a@x.com', 't1', 2, '2026-01-01 11:00:00', FALSE)`)
}

func TestSchemaRejectsInvalidRows(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	if _, err := conn.Exec("INSERT INTO judge (email, role) VALUES ('a@x.com', 'overlord')"); err == nil {
		t.Error("Expected CHECK violation for invalid role")
	}

	if _, err := conn.Exec("INSERT INTO team (id, name) VALUES ('t1', 'Alpha')"); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec("INSERT INTO judge (email) VALUES ('a@x.com')"); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, completed)
		VALUES ('a1', 'a@x.com', 't1', 0, '2026-01-01 10:00:00', FALSE)`); err == nil {
		t.Error("Expected CHECK violation for round 0")
	}
	if _, err := conn.Exec(`INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, completed)
		VALUES ('a1', 'a@x.com', 'ghost', 1, '2026-01-01 10:00:00', FALSE)`); err == nil {
		t.Error("Expected foreign key violation for unknown team")
	}
}

func TestSQLiteDSNPragmas(t *testing.T) {
	dsn := sqliteDSN("judgeflow.db")
	for _, want := range []string{"_txlock=immediate", "busy_timeout", "foreign_keys(1)"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN missing %s: %s", want, dsn)
		}
	}
	// Existing query strings are extended, not clobbered.
	dsn = sqliteDSN("judgeflow.db?mode=ro")
	if !strings.Contains(dsn, "mode=ro&_txlock=immediate") {
		t.Errorf("Existing query string mishandled: %s", dsn)
	}
}
