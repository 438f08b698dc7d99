package handler

import (
	"net/http"

	"pickup-service/internal/apperr"
	"pickup-service/internal/logger"
	"pickup-service/internal/session"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Pass string `json:"pass"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid JSON"))
		return
	}

	if err := h.passphrase.Verify(req.Pass); err != nil {
		logger.Warn("admin login rejected", map[string]any{
			"ip": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "login failed"})
		return
	}

	token, err := h.tokens.Issue(h.now().Add(session.TTL))
	if err != nil {
		logger.Error("failed to issue admin session", map[string]any{
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	session.SetCookie(c.Writer, token, h.cookie)

	logger.Info("admin login", map[string]any{
		"ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
