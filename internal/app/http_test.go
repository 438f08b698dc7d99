package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pickup-service/internal/middleware"
	"pickup-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/admin/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
}

func writeWebDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"admin/login.html":     "<title>login</title>",
		"admin/pickup.html":    "<title>pickup</title>",
		"sw.js":                "self.addEventListener('push', () => {});",
		"manifest.webmanifest": `{"start_url":"/admin/pickup"}`,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func get(r http.Handler, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := session.NewAuthenticator("router-secret")
	r := newRouter(writeWebDir(t), middleware.NewGate(auth), pingRoutes{})

	token, err := auth.Issue(time.Now().Add(time.Hour))
	require.NoError(t, err)

	w := get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/admin/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login")

	w = get(r, "/admin/pickup", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Fpickup", w.Header().Get("Location"))

	for _, path := range []string{"/admin", "/admin/pickup"} {
		w = get(r, path, token)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "pickup", path)
	}

	w = get(r, "/api/admin/ping", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = get(r, "/api/admin/ping", token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/sw.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", w.Header().Get("Service-Worker-Allowed"))

	w = get(r, "/manifest.webmanifest", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
