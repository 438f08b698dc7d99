package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized(), http.StatusUnauthorized},
		{Config("missing"), http.StatusInternalServerError},
		{New(KindNotFound, "nope"), http.StatusNotFound},
		{New(KindRateLimited, "slow down"), http.StatusTooManyRequests},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", Validation("inner")), http.StatusBadRequest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsMatchesSentinelAfterWrap(t *testing.T) {
	sentinel := Config("secret missing")
	err := fmt.Errorf("startup: %w", sentinel)

	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, Config("other")))
}

func TestPublicReasonHidesInternals(t *testing.T) {
	assert.Equal(t, "Server error", PublicReason(Wrap(KindConfig, "key material missing", errors.New("x"))))
	assert.Equal(t, "Server error", PublicReason(errors.New("db exploded")))
	assert.Equal(t, "Unauthorized", PublicReason(Wrap(KindAuth, "token expired", nil)))
	assert.Equal(t, "Invalid email", PublicReason(Validation("Invalid email")))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, Validation("invalid subscription"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "invalid subscription", body["error"])
	assert.True(t, c.IsAborted())
}
