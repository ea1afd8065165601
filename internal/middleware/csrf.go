package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
)

const (
	csrfTokenLength = 32
	csrfCookieName  = "csrf_token"
	csrfHeaderName  = "X-CSRF-Token"
)

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// CSRFProtection middleware validates CSRF tokens on state-changing requests.
// Safe methods receive a token cookie; unsafe methods must echo it back in
// the X-CSRF-Token header (double-submit cookie pattern).
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip CSRF for safe methods
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			token := ensureCSRFCookie(w, r)
			ctx := context.WithValue(r.Context(), ctxkeys.CSRFTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil {
			slog.Warn("CSRF validation failed: no cookie",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "CSRF token missing", http.StatusForbidden)
			return
		}

		headerToken := r.Header.Get(csrfHeaderName)
		if headerToken == "" {
			slog.Warn("CSRF validation failed: no header token",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "CSRF token missing", http.StatusForbidden)
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(headerToken)) != 1 {
			slog.Warn("CSRF validation failed: token mismatch",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "CSRF token invalid", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), ctxkeys.CSRFTokenKey, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ensureCSRFCookie returns the existing token or sets a fresh one
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(csrfCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", "error", err)
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // Client JS must read it to set the header
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})

	return token
}
