package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
)

// Realm is announced in the WWW-Authenticate challenge.
const Realm = "pricefit"

// Credentials holds the Basic Auth settings. It can be updated while the
// server runs, e.g. on a config reload.
type Credentials struct {
	mu       sync.RWMutex
	enabled  bool
	user     string
	password string
}

// NewCredentials creates Credentials.
func NewCredentials(enabled bool, user, password string) *Credentials {
	return &Credentials{enabled: enabled, user: user, password: password}
}

// Update replaces the credentials.
func (c *Credentials) Update(enabled bool, user, password string) {
	c.mu.Lock()
	c.enabled, c.user, c.password = enabled, user, password
	c.mu.Unlock()
}

// Enabled reports whether authentication is required.
func (c *Credentials) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

func (c *Credentials) check(user, password string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	return userOK && passOK
}

// Auth requires Basic Auth on every path except the public ones. A public
// path ending in "*" matches by prefix.
func Auth(creds *Credentials, public ...string) Middleware {
	isPublic := publicMatcher(public)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !creds.Enabled() || isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			user, password, ok := r.BasicAuth()
			if !ok || !creds.check(user, password) {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func publicMatcher(paths []string) func(string) bool {
	exact := make(map[string]struct{}, len(paths))
	var prefixes []string

	for _, p := range paths {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			prefixes = append(prefixes, prefix)
			continue
		}
		exact[p] = struct{}{}
	}

	return func(path string) bool {
		if _, ok := exact[path]; ok {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}
}
