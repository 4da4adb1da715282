// Package auth implements the admin session and token authority.
//
// A single signed cookie (gorilla/sessions CookieStore) carries three
// correlated credentials issued together at login: an authenticated flag,
// an opaque admin token, and the issuance timestamp. The session is valid
// while the flag is set and the timestamp is younger than the configured
// lifetime. Expiry is enforced on every check rather than by revocation,
// so repeated checks after expiry keep reporting not-authenticated.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey     = "is_authenticated"
	adminTokenKey = "admin_token"
	issuedAtKey   = "issued_at" // epoch milliseconds

	// TokenHeader carries the admin token on privileged requests.
	TokenHeader = "X-Admin-Token"

	// tokenBytes is the admin token entropy; hex-encoded it is 64 characters.
	tokenBytes = 32
)

// DefaultLifetime is the admin session validity window.
const DefaultLifetime = time.Hour

// Status is the result of a session check.
type Status struct {
	Authenticated bool   `json:"authenticated"`
	Reason        string `json:"reason,omitempty"`
}

// SessionManager issues and checks the admin session cookie.
// Use NewSessionManager to create an instance.
type SessionManager struct {
	store    *sessions.CookieStore
	logger   *zap.Logger
	name     string
	lifetime time.Duration
}

// SessionConfigError is returned when session configuration is invalid.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string {
	return e.Message
}

// NewSessionManager creates a SessionManager.
//
//   - sessionKey: cookie signing key (≥32 random chars required in production)
//   - name: session cookie name (defaults to "atelier-admin" if empty)
//   - domain: cookie domain (empty means current host)
//   - lifetime: session validity window (DefaultLifetime if zero)
//   - secure: set the Secure cookie attribute (HTTPS production)
func NewSessionManager(sessionKey, name, domain string, lifetime time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}

	isWeak := len(sessionKey) < 32 || isDefaultKey(sessionKey)
	if secure && isWeak {
		return nil, &SessionConfigError{
			Message: "session key is too weak for production; provide ≥32 random chars (not the default dev key)",
		}
	}
	if isWeak {
		logger.Warn("session key is weak; 32+ random chars required in production",
			zap.Int("length", len(sessionKey)),
			zap.Bool("is_default", isDefaultKey(sessionKey)))
	}

	if name == "" {
		name = "atelier-admin"
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		// The admin dashboard is first-party only; Strict keeps the cookie
		// off every cross-site request.
		SameSite: http.SameSiteStrictMode,
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.Duration("lifetime", lifetime))

	return &SessionManager{
		store:    store,
		logger:   logger,
		name:     name,
		lifetime: lifetime,
	}, nil
}

// SessionName returns the configured session cookie name.
func (sm *SessionManager) SessionName() string {
	return sm.name
}

// Lifetime returns the session validity window.
func (sm *SessionManager) Lifetime() time.Duration {
	return sm.lifetime
}

// Issue establishes a fresh admin session: a newly generated admin token,
// the authenticated flag, and the issuance timestamp, all in one signed
// cookie. The token is rotated on every call; a token from a previous
// session is never reused. Returns the token so the caller can hand it to
// the dashboard client.
func (sm *SessionManager) Issue(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// Stale or tampered cookie; start over.
		sess, _ = sm.store.New(r, sm.name)
	}

	token, err := GenerateAdminToken()
	if err != nil {
		return "", err
	}

	sess.Values[isAuthKey] = true
	sess.Values[adminTokenKey] = token
	sess.Values[issuedAtKey] = time.Now().UnixMilli()

	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return token, nil
}

// Verify checks the session credentials. It never mutates the cookie:
// an expired session keeps its credentials and keeps reporting
// {authenticated: false, reason: "expired"} on every subsequent check.
func (sm *SessionManager) Verify(r *http.Request) Status {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.logSessionError(err, r)
		return Status{Authenticated: false}
	}

	isAuth, _ := sess.Values[isAuthKey].(bool)
	if !isAuth {
		return Status{Authenticated: false}
	}

	issuedAt, ok := sess.Values[issuedAtKey].(int64)
	if !ok {
		return Status{Authenticated: false}
	}

	if time.Since(time.UnixMilli(issuedAt)) >= sm.lifetime {
		return Status{Authenticated: false, Reason: "expired"}
	}
	return Status{Authenticated: true}
}

// Token returns the admin token held in the session, or "" if absent.
func (sm *SessionManager) Token(r *http.Request) string {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[adminTokenKey].(string)
	return token
}

// Destroy terminates the session and expires the cookie.
func (sm *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	sess.Values[isAuthKey] = false
	delete(sess.Values, adminTokenKey)
	delete(sess.Values, issuedAtKey)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// AuthorizePrivileged gates privileged sub-operations such as push
// subscription registration: the session must verify AND the request must
// carry a well-formed admin token in the TokenHeader header.
//
// The token is checked by shape only (64 lowercase hex), not compared with
// the issued value. Combined with the signed session cookie this is
// defense in depth for the privileged call, not an independent secret
// comparison.
func (sm *SessionManager) AuthorizePrivileged(r *http.Request) bool {
	if !sm.Verify(r).Authenticated {
		return false
	}
	return ValidateAdminToken(r.Header.Get(TokenHeader))
}

// GenerateAdminToken returns 32 random bytes hex-encoded: 64 lowercase
// hexadecimal characters.
func GenerateAdminToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ValidateAdminToken reports whether candidate is exactly 64 lowercase
// hexadecimal characters. Uppercase hex is rejected.
func ValidateAdminToken(candidate string) bool {
	if len(candidate) != tokenBytes*2 {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// RequireAdmin is middleware that rejects requests without a valid admin
// session with a JSON 401.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := sm.Verify(r)
		if !status.Authenticated {
			msg := "unauthorized"
			if status.Reason == "expired" {
				msg = "session expired"
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logSessionError classifies a cookie decode failure for logging. Expired
// or corrupted cookies are routine; a bad MAC is worth a warning.
func (sm *SessionManager) logSessionError(err error, r *http.Request) {
	errStr := strings.ToLower(err.Error())

	if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
		switch {
		case strings.Contains(errStr, "expired timestamp"):
			sm.logger.Debug("session cookie expired",
				zap.String("path", r.URL.Path))
		case strings.Contains(errStr, "mac") || strings.Contains(errStr, "hash"):
			sm.logger.Warn("session MAC validation failed (possible tampering)",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()))
		default:
			sm.logger.Info("session cookie decode failed",
				zap.String("path", r.URL.Path))
		}
		return
	}

	sm.logger.Warn("session error",
		zap.Error(err),
		zap.String("path", r.URL.Path))
}

// isDefaultKey checks if the session key looks like a placeholder value.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	patterns := []string{
		"dev-only",
		"change-me",
		"placeholder",
		"default",
		"example",
		"insecure",
		"test-key",
		"secret123",
		"password",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
