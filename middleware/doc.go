// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms),
and records the latency histogram.

# Judge Identification

JudgeFromRequest verifies the judge identity headers:

	email, err := middleware.JudgeFromRequest(r, cfg.JudgeKeySalt)

Requires X-Judge-Email plus the HMAC X-Judge-Key issued at check-in.
Full identity and session management are external; this is only the
hand-off check.

# Per-Judge Throttle

JudgeThrottle sheds double-clicks and refresh storms:

	throttle := middleware.NewJudgeThrottle(1, 3)
	mux.HandleFunc("POST /judging/next", throttle.Wrap(handler))

Returns 429 when a judge exceeds the rate. The engine is safe without
it - rapid duplicate requests re-acquire the same slot - so the limits
are deliberately generous.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.NextTeamRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
