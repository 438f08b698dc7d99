package push

import (
	"net/http"

	"pickup-service/internal/apperr"
	"pickup-service/internal/logger"

	"github.com/gin-gonic/gin"
)

// TestNotification is sent by the admin "send test" action.
var TestNotification = Notification{
	Title: "Test notification",
	Body:  "push test",
	URL:   "/admin/pickup",
}

type Handler struct {
	dispatcher *Dispatcher
	store      Store
}

func NewHandler(dispatcher *Dispatcher, store Store) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		store:      store,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/admin/push")
	g.GET("/public-key", h.publicKey)
	g.POST("/subscribe", h.subscribe)
	g.GET("/test", h.test)
	g.POST("/test", h.test)
}

// publicKey returns an empty key when push is not configured; clients
// treat that as the feature being unavailable.
func (h *Handler) publicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"key": h.dispatcher.PublicKey(),
	})
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("invalid subscription"))
		return
	}

	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		apperr.Respond(c, apperr.Validation("invalid subscription"))
		return
	}

	err := h.store.Upsert(c.Request.Context(), Subscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		logger.Error("failed to store push subscription", map[string]any{
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) test(c *gin.Context) {
	res, err := h.dispatcher.Dispatch(c.Request.Context(), TestNotification)
	if err != nil {
		logger.Error("push test dispatch failed", map[string]any{
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"enabled": h.dispatcher.Enabled(),
		"result":  res,
	})
}
