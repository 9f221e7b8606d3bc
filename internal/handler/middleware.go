package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"perfectapi/internal/service"
)

type contextKey string

const principalKey contextKey = "principal"

// maxBodyBytes caps request bodies. Larger payloads fail fast with 413
// instead of being buffered.
const maxBodyBytes = 64 << 10

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (service.Principal, bool) {
	p, ok := ctx.Value(principalKey).(service.Principal)
	return p, ok
}

// BodyLimit rejects requests whose declared length exceeds the body cap and
// bounds the reader for everything else.
func BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxBodyBytes {
			writeProblem(w, r, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitHeaders stamps advisory X-RateLimit headers on every response. The
// quota is informational only; requests are never rejected.
func RateLimitHeaders(quota *service.Quota, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining := quota.Take(clientIP(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(quota.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}

// RequestLogging logs one line per request with method, path, status, and
// duration.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// SecurityHeaders sets baseline hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// RequireAuth authenticates the request via X-API-Key or a bearer token and
// stores the principal in the request context.
func RequireAuth(auth *service.AuthService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := authenticate(auth, r)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// RequireScope is RequireAuth plus a scope check.
func RequireScope(auth *service.AuthService, scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := authenticate(auth, r)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if !principal.HasScope(scope) {
			writeProblem(w, r, http.StatusForbidden, "Missing required scope: "+scope+".")
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

func authenticate(auth *service.AuthService, r *http.Request) (service.Principal, error) {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return auth.VerifyAPIKey(key)
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return service.Principal{}, service.ErrMissingCredentials
	}
	return auth.VerifyBearer(token)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
