// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the judgeflow API server.

Judgeflow runs the judging queue of a hackathon expo: judges ask for
their next team, the assignment engine picks one they have never seen,
claims it safely under concurrency, and records completions when scores
come in. Every team gets exactly the configured number of judges per
round; no judge ever sees the same team twice.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=judgeflow.db JUDGE_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 3318 -d judgeflow.db -judge-salt ...

PostgreSQL is supported for larger events:

	go run main.go -t postgres -d "postgres://..." -judge-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JUDGE_KEY_SALT (-judge-salt): Secret for judge key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - JUDGES_PER_TEAM (-judges): Judge quota per team per round (default: 2)
  - DEFAULT_ROUND (-round): Round assumed when requests omit one (default: 1)
  - ROSTER_PATH (-roster): YAML roster applied at startup

# Architecture

The server uses a handler-based architecture with dependency injection:

  - engine: candidate selection, slot locking, queue orchestration
  - store: durable assignment records (SQL and in-memory)
  - registry: read-only team/judge listing and roster provisioning
  - handlers: HTTP request handlers (judging, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, judge identification, throttling
  - metrics: Prometheus instrumentation
  - models: Request/response types
  - auth: Judge key generation and validation
  - db: Connection opening and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
