// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string or file path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - JudgesPerTeam: Required judges per team per round (default: 2)
  - DefaultRound: Round assumed when a request omits one (default: 1)
  - RosterPath: Optional YAML roster loaded at startup
  - JudgeKeySalt: Secret for judge key HMAC (required)

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	-judges     Required judges per team
	-round      Default round
	-roster     Roster file path
	-judge-salt Judge key salt

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	JUDGES_PER_TEAM → -judges
	DEFAULT_ROUND   → -round
	ROSTER_PATH     → -roster
	JUDGE_KEY_SALT  → -judge-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or out of range:

  - DATABASE_URL must be provided
  - JUDGE_KEY_SALT must be provided
  - JUDGES_PER_TEAM must be at least 1
  - DEFAULT_ROUND must be positive
*/
package cliparse
