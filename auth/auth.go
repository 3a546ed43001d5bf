package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "admin_session"
	// sessionMarker is the one value a signed cookie may carry: this is a
	// single-admin back office, not a multi-user system.
	sessionMarker = "admin"
)

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(value string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CheckPassword verifies the admin password. ADMIN_PASSWORD_HASH (bcrypt)
// takes precedence; ADMIN_PASSWORD is the plain-text dev fallback.
func CheckPassword(password string) bool {
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	expected := os.Getenv("ADMIN_PASSWORD")
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
}

// CreateSession sets the signed admin cookie.
func CreateSession(w http.ResponseWriter) {
	value := sessionMarker + "." + sign(sessionMarker)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// IsAuthenticated validates the cookie: the value must be the expected marker
// with a valid signature.
func IsAuthenticated(r *http.Request) bool {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return false
	}
	marker, sig := parts[0], parts[1]
	if marker != sessionMarker {
		return false
	}
	expected := sign(marker)
	return hmac.Equal([]byte(sig), []byte(expected))
}

// RequireAuth rejects unauthenticated requests with a JSON 401. Every admin
// API route sits behind it.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if _, err := w.Write([]byte(`{"success":false,"error":"unauthorized"}`)); err != nil {
				_ = err
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}
