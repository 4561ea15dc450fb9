// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// JudgeThrottle rate-limits requests per judge, keyed by the
// X-Judge-Email header (client IP for unidentified requests). It absorbs
// double-clicks and refresh storms before they reach the engine; the
// engine stays correct without it, this just sheds the load.
type JudgeThrottle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewJudgeThrottle(perSecond float64, burst int) *JudgeThrottle {
	return &JudgeThrottle{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// Wrap applies the throttle to a handler.
func (t *JudgeThrottle) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Judge-Email")
		if key == "" {
			key = GetClientIP(r)
		}
		if !t.limiter(key).Allow() {
			ErrorResponse(w, http.StatusTooManyRequests, "Slow down - request a team once per few seconds")
			return
		}
		next(w, r)
	}
}

func (t *JudgeThrottle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.limiters[key]
	if !ok {
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = l
	}
	return l
}
