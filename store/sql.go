// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackline/judgeflow/db"
	"github.com/hackline/judgeflow/models"
)

// SQL is the database-backed AssignmentStore. It runs on PostgreSQL and
// SQLite through database/sql; the claim sequence is one transaction on
// either driver (SERIALIZABLE on Postgres, immediate-mode on SQLite).
type SQL struct {
	db     *sql.DB
	driver string
}

func NewSQL(conn *sql.DB, driver string) *SQL {
	return &SQL{db: conn, driver: driver}
}

func (s *SQL) begin(ctx context.Context) (*sql.Tx, error) {
	opts := &sql.TxOptions{}
	if s.driver == db.TypePostgres {
		opts.Isolation = sql.LevelSerializable
	}
	return s.db.BeginTx(ctx, opts)
}

// ClaimSlot claims the (judge, team, round) slot under one transaction.
// Check order is fixed: capacity, other-judge lock, capacity again, then
// the write and a read-back verification.
func (s *SQL) ClaimSlot(ctx context.Context, judgeEmail, teamID string, round, required int) (ClaimOutcome, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return 0, classify(err, "begin claim transaction")
	}
	defer tx.Rollback()

	// 1. Capacity: a full team takes no more judges this round.
	count, err := countRoundAssignments(ctx, tx, teamID, round)
	if err != nil {
		return 0, classify(err, "count assignments")
	}
	if count >= required {
		return ClaimTeamFull, nil
	}

	// 2. Another judge holding an uncompleted lock blocks the team. The
	// requesting judge's own lock does not: a judge may re-acquire a slot
	// left over from a crashed session.
	var others int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM assignment
		WHERE team_id = $1 AND round = $2 AND judge_email <> $3
		  AND completed = FALSE AND locked_at IS NOT NULL
	`, teamID, round, judgeEmail).Scan(&others)
	if err != nil {
		return 0, classify(err, "check competing locks")
	}
	if others > 0 {
		return ClaimLockedByOther, nil
	}

	// 3. Re-count immediately before the write. Closes the window between
	// check 1 and the insert under concurrent commits.
	count, err = countRoundAssignments(ctx, tx, teamID, round)
	if err != nil {
		return 0, classify(err, "re-count assignments")
	}
	if count >= required {
		return ClaimTeamFull, nil
	}

	// 4. Insert fresh, or refresh the lock on this judge's own existing
	// uncompleted row.
	now := time.Now()
	var (
		id        string
		lockedAt  sql.NullTime
		completed bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, locked_at, completed FROM assignment
		WHERE judge_email = $1 AND team_id = $2 AND round = $3
	`, judgeEmail, teamID, round).Scan(&id, &lockedAt, &completed)

	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO assignment (id, judge_email, team_id, round, assigned_at, locked_at, completed)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		`, id, judgeEmail, teamID, round, now, now)
		if err != nil {
			if isUniqueViolation(err) {
				// The same judge raced themselves into this triple.
				// Retryable: the next attempt finds the row and
				// refreshes its lock instead.
				return 0, fmt.Errorf("%w: concurrent claim on same slot", ErrBusy)
			}
			return 0, classify(err, "insert assignment")
		}
	case err != nil:
		return 0, classify(err, "load existing assignment")
	case completed:
		return ClaimAlreadyJudged, nil
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE assignment SET locked_at = $1 WHERE id = $2
		`, now, id)
		if err != nil {
			return 0, classify(err, "refresh lock")
		}
	}

	// 5. Read back: the lock must be set and belong to this judge.
	var owner string
	var verify sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT judge_email, locked_at FROM assignment WHERE id = $1
	`, id).Scan(&owner, &verify)
	if err != nil {
		return 0, classify(err, "verify lock")
	}
	if owner != judgeEmail || !verify.Valid {
		return 0, fmt.Errorf("lock verification failed for assignment %s", id)
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(err, "commit claim")
	}
	return ClaimLocked, nil
}

func countRoundAssignments(ctx context.Context, tx *sql.Tx, teamID string, round int) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM assignment WHERE team_id = $1 AND round = $2
	`, teamID, round).Scan(&count)
	return count, err
}

// MarkCompleted completes the (judge, team, round) assignment. Calling it
// again for an already-completed row is a no-op.
func (s *SQL) MarkCompleted(ctx context.Context, judgeEmail, teamID string, round int) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return classify(err, "begin completion transaction")
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, round, completed FROM assignment
		WHERE judge_email = $1 AND team_id = $2
	`, judgeEmail, teamID)
	if err != nil {
		return classify(err, "load assignments for completion")
	}

	var targetID string
	alreadyDone := false
	for rows.Next() {
		var (
			id        string
			rowRound  int
			completed bool
		)
		if err := rows.Scan(&id, &rowRound, &completed); err != nil {
			rows.Close()
			return classify(err, "scan assignment")
		}
		if rowRound == round {
			targetID = id
			alreadyDone = completed
		} else if completed {
			// The judge finished this team in another round already.
			// Something upstream violated the one-judge-one-team rule;
			// refuse instead of papering over it.
			rows.Close()
			return ErrDuplicateAssignment
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return classify(err, "iterate assignments")
	}
	rows.Close()

	if targetID == "" {
		return ErrNotFound
	}
	if alreadyDone {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE assignment SET completed = TRUE, locked_at = NULL WHERE id = $1
	`, targetID)
	if err != nil {
		return classify(err, "mark completed")
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "commit completion")
	}
	return nil
}

// ListAssignments returns the full assignment history, oldest first.
func (s *SQL) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return s.list(ctx, `
		SELECT id, judge_email, team_id, round, assigned_at, locked_at, completed
		FROM assignment ORDER BY assigned_at, id
	`)
}

// ListRound returns all assignment rows for one round, oldest first.
func (s *SQL) ListRound(ctx context.Context, round int) ([]models.Assignment, error) {
	return s.list(ctx, `
		SELECT id, judge_email, team_id, round, assigned_at, locked_at, completed
		FROM assignment WHERE round = $1 ORDER BY assigned_at, id
	`, round)
}

func (s *SQL) list(ctx context.Context, query string, args ...interface{}) ([]models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "query assignments")
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		var lockedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.JudgeEmail, &a.TeamID, &a.Round, &a.AssignedAt, &lockedAt, &a.Completed); err != nil {
			return nil, classify(err, "scan assignment")
		}
		if lockedAt.Valid {
			t := lockedAt.Time
			a.LockedAt = &t
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate assignments")
	}
	return assignments, nil
}

// classify wraps storage errors, mapping driver-specific contention
// reports onto ErrBusy so callers can retry them uniformly.
func classify(err error, op string) error {
	if isBusy(err) {
		return fmt.Errorf("%w: %s: %v", ErrBusy, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
