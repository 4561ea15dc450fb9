// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection opening and schema creation.

# Opening a Connection

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "postgres" (lib/pq) and "sqlite" (modernc.org/sqlite).
SQLite connections are opened with immediate transactions, a busy timeout,
WAL journaling, and foreign keys enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - team: teams eligible for judging (externally managed)
  - judge: judges eligible to request work (externally managed)
  - assignment: one row per claimed judging slot
  - score: submitted evaluations

# Constraints

  - assignment(judge_email, team_id, round) is unique
  - score(judge_email, team_id, round) is unique
  - judge.role is 'judge' or 'admin'
  - assignment.round is positive

# Indexes

Performance indexes on:

  - assignment.(team_id, round)
  - assignment.judge_email
  - score.(team_id, round)

The SQL is portable: the same statements run on PostgreSQL and SQLite, so
tests can use an in-memory database while production uses either driver.
*/
package db
