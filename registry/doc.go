// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry lists the teams and judges eligible for judging.

The assignment engine treats the registry as read-only: teams and judges
are created and destroyed by external management, and this package only
answers "which teams exist" and "is this judge real".

# Reads

	teams, err := reg.ListTeams(ctx)
	judge, found, err := reg.GetJudge(ctx, email)

Lookups report absence through a boolean, not an error.

# Provisioning

A YAML roster file is the hand-off point from the external systems:

	teams:
	  - id: team-01
	    name: Rubber Duck Debuggers
	    table: A1
	    division: general
	judges:
	  - email: ada@example.com
	    name: Ada
	    role: judge

	roster, err := registry.LoadRoster(path)
	err = reg.ApplyRoster(ctx, roster)

ApplyRoster upserts; re-running with an updated file is safe and nothing
is ever deleted (assignment history references old teams).
*/
package registry
