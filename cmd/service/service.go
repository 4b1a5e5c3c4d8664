// @title        Contacts API
// @version      1.0
// @description  聯絡人服務：限流端點、背景寄信與頭像上傳
// @host         localhost:8080
// @BasePath     /
// @securityDefinitions.oauth2.password OAuth2Password
// @tokenUrl /token
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contacts-api/internal/cache"
	"contacts-api/internal/config"
	"contacts-api/internal/database"
	"contacts-api/internal/logging"
	"contacts-api/internal/mailer"
	"contacts-api/internal/media"
	"contacts-api/internal/ratelimit"
	"contacts-api/internal/router"
	"contacts-api/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "contacts-api/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// shutdownTimeout 收到訊號後等待進行中請求的時間
const shutdownTimeout = 10 * time.Second

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newLogger       = logging.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	newWorkerPool   = worker.NewPool
	newMailer       = mailer.New
	newUploader     = media.New
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	notifyContext   = signal.NotifyContext
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger 建立失敗: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// MIGRATE_DOWN 只退回所有 migration，不啟動服務
	if cfg.MigrateDown {
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("Rollback 執行失敗: %w", err)
		}
		logger.Info("all migrations rolled back")
		return nil
	}

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	wp := newWorkerPool(cfg.WorkerCount, 100, logger.Named("worker"))
	defer wp.Stop()

	sender, err := newMailer(ctx, cfg.Mail)
	if err != nil {
		return fmt.Errorf("mailer 建立失敗: %w", err)
	}

	uploader, err := newUploader(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("uploader 建立失敗: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Recover())
	e.Use(logging.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	limiter := ratelimit.New(rdb, cfg.RateLimitTimes, cfg.RateLimitWindow)
	logger.Info("rate limiter ready",
		zap.Int("times", limiter.Times()),
		zap.Duration("window", limiter.Window()),
		zap.Bool("trust_proxy", cfg.TrustProxy),
	)

	router.Setup(e, router.Deps{
		Config:   cfg,
		DB:       db,
		Cache:    rdb,
		Limiter:  limiter,
		Pool:     wp,
		Mailer:   sender,
		Uploader: uploader,
		Log:      logger,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()
	logger.Info("server started", zap.String("addr", cfg.HTTPAddr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server 啟動失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server 關閉失敗: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
