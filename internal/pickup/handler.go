package pickup

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pickup-service/internal/apperr"
	"pickup-service/internal/logger"
	"pickup-service/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

const notifyTimeout = 30 * time.Second

type Handler struct {
	store    Store
	limiter  ratelimit.Limiter
	notifier Notifier

	wg sync.WaitGroup
}

func NewHandler(store Store, limiter ratelimit.Limiter, notifier Notifier) *Handler {
	return &Handler{
		store:    store,
		limiter:  limiter,
		notifier: notifier,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/pickup", h.submit)

	admin := r.Group("/api/admin")
	admin.GET("/pickup", h.list)
	admin.PATCH("/pickup", h.patch)
	admin.GET("/pickup-csv", h.exportCSV)
}

// Wait blocks until in-flight lead notifications finish.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) submit(c *gin.Context) {
	var sub Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid JSON"))
		return
	}

	if !h.allow(c) {
		return
	}

	// pretend success so bots do not retry
	if sub.IsBot() {
		logger.Info("honeypot submission dropped", map[string]any{
			"ip": ratelimit.ClientIP(c.Request),
		})
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	req, err := sub.Normalize()
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	created, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		logger.Error("failed to store pickup request", map[string]any{
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	logger.Info("pickup request stored", map[string]any{
		"id": created.ID.String(),
	})

	h.notify(c.Request.Context(), created)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// allow applies the per-IP limit. A broken limiter lets the request through.
func (h *Handler) allow(c *gin.Context) bool {
	if h.limiter == nil {
		return true
	}

	ip := ratelimit.ClientIP(c.Request)
	d, err := h.limiter.Allow(c.Request.Context(), ip)
	if err != nil {
		logger.Warn("rate limiter unavailable", map[string]any{
			"error": err.Error(),
		})
		return true
	}
	if d.Allowed {
		return true
	}

	c.Header("Retry-After", strconv.Itoa(d.RetryAfterSeconds()))
	apperr.Respond(c, apperr.New(apperr.KindRateLimited, "Too many requests. Please retry later."))
	return false
}

func (h *Handler) notify(parent context.Context, r Request) {
	if h.notifier == nil {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), notifyTimeout)
		defer cancel()

		h.notifier.LeadCreated(ctx, r)
	}()
}
