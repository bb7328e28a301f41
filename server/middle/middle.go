// Package middle contains HTTP middleware for the glaemscribe server: a
// Middleware function type wrapping http.Handler, an auth handler that
// populates the request context before delegating, and a panic-recovery
// wrapper. This domain has no user accounts, so admin auth is a single
// shared bearer token compared in constant time rather than a per-user
// credential lookup.
package middle

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/glaemscribe/glaemscribe-go/server/result"
)

type mwFunc http.HandlerFunc

func (f mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	f(w, req)
}

// Middleware wraps a handler with additional behavior.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a context key populated by RequireAdminToken.
type AuthKey int

const AuthAdmin AuthKey = iota

type adminAuthHandler struct {
	token         string
	unauthedDelay time.Duration
	next          http.Handler
}

func (h *adminAuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	given := bearerToken(req)
	if h.token == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.token)) != 1 {
		r := result.Unauthorized("", "missing or incorrect admin token")
		time.Sleep(h.unauthedDelay)
		r.WriteResponse(w)
		r.Log(req)
		return
	}

	ctx := context.WithValue(req.Context(), AuthAdmin, true)
	h.next.ServeHTTP(w, req.WithContext(ctx))
}

func bearerToken(req *http.Request) string {
	hdr := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(hdr, prefix) {
		return ""
	}
	return strings.TrimSpace(hdr[len(prefix):])
}

// RequireAdminToken returns middleware that rejects any request not
// carrying the given bearer token in its Authorization header.
func RequireAdminToken(token string, unauthedDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &adminAuthHandler{token: token, unauthedDelay: unauthedDelay, next: next}
	}
}

// DontPanic returns middleware that recovers a panic from the wrapped
// handler and converts it into an HTTP-500 response instead of crashing
// the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			defer panicTo500(w, req)
			next.ServeHTTP(w, req)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (recovered bool) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		r.Log(req)
		return true
	}
	return false
}
