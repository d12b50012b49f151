// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AdminGate, the shared-secret check guarding every
// mutating venue endpoint and the management table. Clients present the secret
// in the X-Admin-Secret request header; no session or user model exists.
//
// Design notes:
//   - Comparison uses crypto/subtle so response timing does not leak how much
//     of a guessed secret matched.
//   - An empty configured secret disables the gate entirely and is only
//     acceptable for local development; config validation rejects it in
//     release mode.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderAdminSecret is the request header carrying the admin shared secret.
const HeaderAdminSecret = "X-Admin-Secret"

// AdminGate returns a Gin middleware that rejects requests whose
// X-Admin-Secret header does not match secret.
//
// Behavior:
//   - secret == "": the gate is open (development mode).
//   - Missing or wrong header: 401 with the standard error envelope shape.
//   - Match: the request proceeds.
func AdminGate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader(HeaderAdminSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "admin secret required",
			})
			return
		}
		c.Next()
	}
}
