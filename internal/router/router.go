// File: internal/router/router.go
package router

import (
	"contacts-api/internal/cache"
	"contacts-api/internal/config"
	"contacts-api/internal/database"
	"contacts-api/internal/handler"
	"contacts-api/internal/handler/auth"
	"contacts-api/internal/handler/avatar"
	"contacts-api/internal/handler/contacts"
	"contacts-api/internal/handler/email"
	"contacts-api/internal/mailer"
	"contacts-api/internal/media"
	"contacts-api/internal/middleware"
	"contacts-api/internal/worker"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps 路由所需的共用資源；整個程序共用一份
type Deps struct {
	Config   *config.Config
	DB       database.DB
	Cache    cache.Cache
	Limiter  middleware.Limiter
	Pool     worker.Pool
	Mailer   mailer.Sender
	Uploader media.Uploader
	Log      *zap.Logger
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.IPExtractor = middleware.IPExtractor(cfg.TrustProxy)
	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	rateLimit := middleware.RateLimit(d.Limiter, middleware.ClientRouteIdentifier, log)

	// 健康檢查
	e.GET("/healthz", handler.PingHandler(d.DB, d.Cache))

	// 帳號與令牌
	e.POST("/auth/signup", auth.SignupHandler(d.DB))
	e.POST("/token", auth.TokenHandler(d.DB, d.Cache, auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}))

	// 限流端點：先計數再驗證身分
	e.GET("/contacts/", contacts.ReadContactsHandler(), rateLimit)
	e.GET("/user/contacts/", contacts.ReadUserContactsHandler(), rateLimit, requireAuth)

	// 背景寄信
	e.POST("/send-email", email.SendEmailHandler(d.Pool, d.Mailer, email.Options{
		Subject:         cfg.Mail.Subject,
		Template:        email.DefaultTemplate,
		FromName:        cfg.Mail.FromName,
		DefaultFullname: cfg.Mail.Fullname,
		Timeout:         cfg.Mail.Timeout,
	}, log), requireAuth)

	// 頭像上傳
	e.POST("/upload-avatar/", avatar.UploadAvatarHandler(d.Uploader, cfg.Media.Folder, cfg.Media.MaxBytes, log))
}
