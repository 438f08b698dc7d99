package handler

import (
	"net/http"
	"time"

	"pickup-service/internal/logger"
	"pickup-service/internal/middleware"
	"pickup-service/internal/session"

	"github.com/gin-gonic/gin"
)

type PassphraseVerifier interface {
	Verify(candidate string) error
}

type TokenIssuer interface {
	Issue(expiresAt time.Time) (string, error)
}

type Handler struct {
	passphrase PassphraseVerifier
	tokens     TokenIssuer
	cookie     session.CookieOptions
	now        func() time.Time
}

func NewHandler(
	passphrase PassphraseVerifier,
	tokens TokenIssuer,
	cookie session.CookieOptions,
) *Handler {
	return &Handler{
		passphrase: passphrase,
		tokens:     tokens,
		cookie:     cookie,
		now:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST(middleware.LoginAPIPath, h.Login)
	r.POST("/api/admin/logout", h.Logout)
}

// Logout is idempotent: it clears the cookie whether or not one was sent.
// Tokens are stateless, so a copy taken before logout stays valid until it
// expires.
func (h *Handler) Logout(c *gin.Context) {
	session.ClearCookie(c.Writer, h.cookie)

	logger.Info("admin logout", map[string]any{
		"ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
