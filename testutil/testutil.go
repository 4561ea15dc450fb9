// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackline/judgeflow/auth"
	"github.com/hackline/judgeflow/cliparse"
	"github.com/hackline/judgeflow/db"
)

// TestJudgeKeySalt signs judge keys in tests.
const TestJudgeKeySalt = "test-judge-salt"

// SetupTestDB creates a fresh SQLite database in the test's temp
// directory with the full schema. Hermetic: no external services.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "judgeflow-test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "test",
		DatabaseType:  db.TypeSQLite,
		JudgeKeySalt:  TestJudgeKeySalt,
		JudgesPerTeam: 2,
		DefaultRound:  1,
	}
}

// CreateTestTeam inserts a team and returns its ID
func CreateTestTeam(t *testing.T, conn *sql.DB, id, name string) string {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO team (id, name, table_location, division)
		VALUES ($1, $2, 'A1', 'general')
	`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}

	return id
}

// CreateTestJudge inserts a judge and returns the email
func CreateTestJudge(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO judge (email, name, role)
		VALUES ($1, $2, 'judge')
	`, email, "Judge "+email)
	if err != nil {
		t.Fatalf("Failed to create test judge: %v", err)
	}

	return email
}

// CreateTestAssignment inserts an assignment row directly, bypassing the
// engine. For arranging histories in tests only.
func CreateTestAssignment(t *testing.T, conn *sql.DB, judgeEmail, teamID string, round int, completed bool) string {
	t.Helper()

	id := uuid.NewString()
	var lockedAt *time.Time
	if !completed {
		now := time.Now()
		lockedAt = &now
	}
	_, err := conn.Exec(`
		INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, locked_at, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, judgeEmail, teamID, round, time.Now(), lockedAt, completed)
	if err != nil {
		t.Fatalf("Failed to create test assignment: %v", err)
	}

	return id
}

// JudgeHeaders returns the identity headers for a test judge
func JudgeHeaders(email string) map[string]string {
	return map[string]string{
		"X-Judge-Email": email,
		"X-Judge-Key":   auth.GenerateJudgeKey(email, TestJudgeKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// CountRows is a convenience for invariant checks
func CountRows(t *testing.T, conn *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
