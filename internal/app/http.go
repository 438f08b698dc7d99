package app

import (
	"context"
	"net/http"
	"path/filepath"

	"pickup-service/internal/auth/credentials"
	"pickup-service/internal/auth/handler"
	"pickup-service/internal/config"
	"pickup-service/internal/events"
	"pickup-service/internal/logger"
	"pickup-service/internal/mail"
	"pickup-service/internal/middleware"
	"pickup-service/internal/pickup"
	"pickup-service/internal/push"
	"pickup-service/internal/ratelimit"
	"pickup-service/internal/session"

	"github.com/gin-gonic/gin"
)

type routeRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	passphrase, err := credentials.NewPassphrase(cfg.AdminPass, cfg.AdminPassHash)
	if err != nil {
		infra.Close()
		return nil, nil, err
	}

	mailer, err := mail.New(mail.Config{
		Enabled: cfg.MailEnable,
		Host:    cfg.SMTPHost,
		Port:    cfg.SMTPPort,
		Secure:  cfg.SMTPSecure,
		User:    cfg.SMTPUser,
		Pass:    cfg.SMTPPass,
		From:    cfg.MailFrom,
		To:      cfg.MailTo,
	})
	if err != nil {
		infra.Close()
		return nil, nil, err
	}

	authenticator := session.NewAuthenticator(cfg.AdminCookieSecret)
	cookie := session.CookieOptions{Secure: cfg.Production()}

	vapid := push.VAPIDConfig{
		PublicKey:  cfg.WebPushPublicKey,
		PrivateKey: cfg.WebPushPrivateKey,
		Subject:    cfg.WebPushSubject,
	}
	subscriptions := push.NewPGStore(infra.DB)
	dispatcher := push.NewDispatcher(vapid, subscriptions, push.NewWebPushSender(vapid, nil))

	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.RateLimit, cfg.RateWindow)
	if infra.Redis != nil {
		limiter = ratelimit.NewRedis(infra.Redis.Client, cfg.RateLimit, cfg.RateWindow)
	}

	var emitter *events.Emitter
	if infra.Publisher != nil {
		emitter = events.NewEmitter(infra.Publisher, cfg.AMQPExchange)
	}

	pickupHandler := pickup.NewHandler(
		pickup.NewPGStore(infra.DB),
		limiter,
		pickup.NewFanout(dispatcher, mailer, emitter),
	)

	logger.Info("notification channels", map[string]any{
		"push":  dispatcher.Enabled(),
		"mail":  cfg.MailEnable,
		"amqp":  emitter.Enabled(),
		"redis": infra.Redis != nil,
	})

	router := newRouter(
		cfg.WebDir,
		middleware.NewGate(authenticator),
		handler.NewHandler(passphrase, authenticator, cookie),
		push.NewHandler(dispatcher, subscriptions),
		pickupHandler,
	)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		pickupHandler.Wait()
		return infra.Close()
	}, nil
}

// newRouter gates every request before routing so unknown admin paths are
// rejected the same way as known ones.
func newRouter(webDir string, gate *middleware.Gate, registrars ...routeRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.GinGate(gate))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Admin pages
	// ----------------------------

	page := func(name string) gin.HandlerFunc {
		path := filepath.Join(webDir, name)
		return func(c *gin.Context) {
			c.File(path)
		}
	}

	router.GET(middleware.LoginPagePath, page("admin/login.html"))
	router.GET(middleware.AdminPagePrefix, page("admin/pickup.html"))
	router.GET(middleware.AdminPagePrefix+"/pickup", page("admin/pickup.html"))
	router.GET("/sw.js", func(c *gin.Context) {
		c.Header("Service-Worker-Allowed", "/")
		c.File(filepath.Join(webDir, "sw.js"))
	})
	router.GET("/manifest.webmanifest", page("manifest.webmanifest"))

	// ----------------------------
	// API
	// ----------------------------

	for _, r := range registrars {
		r.RegisterRoutes(router)
	}

	return router
}
