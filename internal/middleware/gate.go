package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"pickup-service/internal/session"
)

const (
	AdminPagePrefix = "/admin"
	AdminAPIPrefix  = "/api/admin"
	LoginPagePath   = "/admin/login"
	LoginAPIPath    = "/api/admin/login"
)

// Class is the gate's view of a request path.
type Class int

const (
	Outside Class = iota
	Public
	ProtectedPage
	ProtectedAPI
)

// Verifier checks a raw session token.
type Verifier interface {
	Verify(token string) bool
}

// Gate enforces a valid admin session on everything under the admin page
// and API prefixes, except the two login routes.
type Gate struct {
	verifier Verifier
}

func NewGate(verifier Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// Classify decides which rule applies to path.
func Classify(path string) Class {
	switch path {
	case LoginPagePath, LoginAPIPath:
		return Public
	}

	switch {
	case underPrefix(path, AdminAPIPrefix):
		return ProtectedAPI
	case underPrefix(path, AdminPagePrefix):
		return ProtectedPage
	default:
		return Outside
	}
}

// underPrefix matches whole path segments, so /administrator is not under /admin.
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := Classify(r.URL.Path)
		if class == Outside || class == Public {
			next.ServeHTTP(w, r)
			return
		}

		// absent and invalid tokens are deliberately indistinguishable
		if g.verifier.Verify(session.TokenFromRequest(r)) {
			next.ServeHTTP(w, r)
			return
		}

		if class == ProtectedAPI {
			writeUnauthorized(w)
			return
		}

		http.Redirect(w, r, LoginRedirect(r.URL.Path), http.StatusFound)
	})
}

// LoginRedirect builds the login URL carrying the path to return to.
func LoginRedirect(next string) string {
	q := url.Values{}
	q.Set("next", next)
	return LoginPagePath + "?" + q.Encode()
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": "Unauthorized",
	})
}
