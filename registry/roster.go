// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hackline/judgeflow/models"
)

// Roster is the YAML hand-off from external team/judge management. The
// service upserts it at startup; it never deletes.
type Roster struct {
	Teams  []RosterTeam  `yaml:"teams"`
	Judges []RosterJudge `yaml:"judges"`
}

type RosterTeam struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Table    string `yaml:"table"`
	Division string `yaml:"division"`
}

type RosterJudge struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

// LoadRoster reads and validates a roster file.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("failed to read roster: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return Roster{}, fmt.Errorf("failed to parse roster: %w", err)
	}

	for i, t := range roster.Teams {
		if t.ID == "" || t.Name == "" {
			return Roster{}, fmt.Errorf("roster team %d missing id or name", i)
		}
	}
	for i := range roster.Judges {
		j := &roster.Judges[i]
		if j.Email == "" {
			return Roster{}, fmt.Errorf("roster judge %d missing email", i)
		}
		if j.Role == "" {
			j.Role = models.RoleJudge
		}
		if j.Role != models.RoleJudge && j.Role != models.RoleAdmin {
			return Roster{}, fmt.Errorf("roster judge %s has invalid role %q", j.Email, j.Role)
		}
	}
	return roster, nil
}

// ApplyRoster upserts every roster entry.
func (r *Registry) ApplyRoster(ctx context.Context, roster Roster) error {
	for _, t := range roster.Teams {
		err := r.UpsertTeam(ctx, models.Team{
			ID:            t.ID,
			Name:          t.Name,
			TableLocation: t.Table,
			Division:      t.Division,
		})
		if err != nil {
			return err
		}
	}
	for _, j := range roster.Judges {
		err := r.UpsertJudge(ctx, models.Judge{Email: j.Email, Name: j.Name, Role: j.Role})
		if err != nil {
			return err
		}
	}
	return nil
}
