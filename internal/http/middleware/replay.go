// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for unsafe HTTP methods (e.g., POST).
// It validates an Idempotency-Key request header, consults an in-memory TTL
// register of recently completed keys, and rejects retries of an already
// completed operation before they reach the handler, so a retried submission
// can never re-execute the mutation and insert a duplicate row.
//
// The register is deliberately process-local: neither of the storage backends
// offers a cheap conditional write (Google Sheets has none at all), so replay
// detection lives at the transport edge. A restart forgets recent keys, which
// for venue submissions only risks a duplicate row an admin can delete.
package middleware

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the canonical request header that clients use to
// convey an idempotency key for unsafe operations (e.g., POST).
//
// The value is expected to be stable for a given semantic operation so that
// retries (network, client, or server initiated) can be safely deduplicated.
const HeaderIdempotencyKey = "Idempotency-Key"

// ctxKeyIdemKey stashes the validated idempotency key in the Gin context.
// Referenced via GetIdempotencyKey, never read directly by handlers.
const ctxKeyIdemKey = "idem.key"

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by ReplayGuard. The second return value indicates presence.
//
// Handlers should prefer this function over reading the header directly.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// ReplayOptions configures header validation and retention for ReplayGuard.
type ReplayOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative RFC7230-like
	// token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
	// TTL bounds how long a completed key is remembered. Values <= 0 default
	// to 24 hours.
	TTL time.Duration
}

// ReplayGuard validates the Idempotency-Key header (if present), stashes it in
// the request context, and checks the in-memory register for a prior completed
// request with the same key.
//
// Behavior:
//   - If header is absent: the middleware is a no-op.
//   - If header fails validation: responds 400 with a compact error body.
//   - If the key was completed within TTL: responds 409 without running the
//     handler. The mutation is not re-executed; the client already holds the
//     outcome of the first attempt and must mint a new key for a new one.
//   - Otherwise, when the wrapped handler finishes with a 2xx status, the key
//     is recorded so later retries are rejected.
//
// Rejected replays never reach the rate limiter or the handler, but they do
// not earn the key any exemption: a fresh request with a fresh key is
// throttled exactly like any other.
func ReplayGuard(opts ReplayOptions) gin.HandlerFunc {
	// Sensible defaults.
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		// RFC-7230-ish token + common safe chars.
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	reg := &replayRegister{seen: make(map[string]time.Time), ttl: ttl}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			// Nothing to validate or stash; proceed.
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		// Stash the normalized key for downstream use.
		c.Set(ctxKeyIdemKey, key)

		// Scope keys per method+route so the same client key can be reused
		// across distinct operations without false replays.
		scoped := c.Request.Method + " " + c.FullPath() + " " + key

		if reg.completed(scoped, time.Now()) {
			c.Header("Idempotency-Replayed", "true")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "duplicate_request",
				"message":    "request with this Idempotency-Key was already completed",
			})
			return
		}

		c.Next()

		// Record only successful completions; a failed request should be
		// retryable with the same key.
		if st := c.Writer.Status(); st >= 200 && st < 300 {
			reg.record(scoped, time.Now())
		}
	}
}

// replayRegister is a TTL-bounded set of completed keys. Expired entries are
// evicted opportunistically on access.
type replayRegister struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func (r *replayRegister) completed(key string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	done, ok := r.seen[key]
	if !ok {
		return false
	}
	if now.Sub(done) >= r.ttl {
		delete(r.seen, key)
		return false
	}
	return true
}

func (r *replayRegister) record(key string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Bound memory: sweep expired entries once the set grows.
	if len(r.seen) >= 10000 {
		for k, done := range r.seen {
			if now.Sub(done) >= r.ttl {
				delete(r.seen, k)
			}
		}
	}
	r.seen[key] = now
}
