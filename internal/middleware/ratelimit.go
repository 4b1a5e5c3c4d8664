package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Limiter 由 ratelimit.Limiter 實作
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// IdentifierFunc 決定限流計數的對象
type IdentifierFunc func(c echo.Context) string

// IPExtractor 決定 RealIP 的來源；未在 proxy 後方時只採用連線位址，
// 避免用戶端以 X-Forwarded-For / X-Real-IP 輪替繞過限流
func IPExtractor(trustProxy bool) echo.IPExtractor {
	if trustProxy {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}

// ClientRouteIdentifier 以來源 IP 加上路由樣板計數
func ClientRouteIdentifier(c echo.Context) string {
	return c.RealIP() + ":" + c.Path()
}

// RateLimit 超過次數時回傳 429 並帶 Retry-After；Redis 不可用時回傳 503
func RateLimit(l Limiter, identify IdentifierFunc, log *zap.Logger) echo.MiddlewareFunc {
	if identify == nil {
		identify = ClientRouteIdentifier
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := identify(c)
			ok, wait, err := l.Allow(c.Request().Context(), key)
			if err != nil {
				log.Error("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Rate limiter unavailable")
			}
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Requests")
			}
			return next(c)
		}
	}
}
