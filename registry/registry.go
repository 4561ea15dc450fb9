// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hackline/judgeflow/models"
)

// Registry lists the teams and judges eligible for assignment. The
// assignment engine only ever reads it; writes happen at provisioning
// time (roster load) on behalf of external team/judge management.
type Registry struct {
	db *sql.DB
}

func New(conn *sql.DB) *Registry {
	return &Registry{db: conn}
}

// ListTeams returns all teams, ordered by ID for stable output.
func (r *Registry) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(table_location, ''), COALESCE(division, '')
		FROM team ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.TableLocation, &t.Division); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}
	return teams, nil
}

// GetTeam looks up one team. The second return is false when the team
// does not exist; absence is an answer, not an error.
func (r *Registry) GetTeam(ctx context.Context, id string) (models.Team, bool, error) {
	var t models.Team
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(table_location, ''), COALESCE(division, '')
		FROM team WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.TableLocation, &t.Division)
	if err == sql.ErrNoRows {
		return models.Team{}, false, nil
	}
	if err != nil {
		return models.Team{}, false, fmt.Errorf("failed to query team: %w", err)
	}
	return t, true, nil
}

// GetJudge looks up one judge by email.
func (r *Registry) GetJudge(ctx context.Context, email string) (models.Judge, bool, error) {
	var j models.Judge
	err := r.db.QueryRowContext(ctx, `
		SELECT email, COALESCE(name, ''), role FROM judge WHERE email = $1
	`, email).Scan(&j.Email, &j.Name, &j.Role)
	if err == sql.ErrNoRows {
		return models.Judge{}, false, nil
	}
	if err != nil {
		return models.Judge{}, false, fmt.Errorf("failed to query judge: %w", err)
	}
	return j, true, nil
}

// UpsertTeam inserts or updates a team. Provisioning only.
func (r *Registry) UpsertTeam(ctx context.Context, t models.Team) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team (id, name, table_location, division)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			table_location = excluded.table_location,
			division = excluded.division
	`, t.ID, t.Name, t.TableLocation, t.Division)
	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", t.ID, err)
	}
	return nil
}

// UpsertJudge inserts or updates a judge. Provisioning only.
func (r *Registry) UpsertJudge(ctx context.Context, j models.Judge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO judge (email, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			name = excluded.name,
			role = excluded.role
	`, j.Email, j.Name, j.Role)
	if err != nil {
		return fmt.Errorf("failed to upsert judge %s: %w", j.Email, err)
	}
	return nil
}
