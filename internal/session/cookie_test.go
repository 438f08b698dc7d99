package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCookieAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "payload.sig", CookieOptions{Secure: true})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "payload.sig", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int(TTL.Seconds()), c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestSetCookieInsecureOutsideProduction(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "t", CookieOptions{})

	c := w.Result().Cookies()[0]
	assert.False(t, c.Secure)
	assert.True(t, c.HttpOnly)
}

func TestClearCookie(t *testing.T) {
	w := httptest.NewRecorder()
	ClearCookie(w, CookieOptions{})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]

	assert.Equal(t, CookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
	assert.True(t, c.Expires.Before(time.Now()))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "abc.def"})
	assert.Equal(t, "abc.def", TokenFromRequest(r))
}
