package middleware

import (
	"net/http"
	"strings"

	"contacts-api/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

var verifyAccessToken = service.VerifyAccessToken

func unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func extractClaims(c echo.Context, secret string) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, unauthorized("Not authenticated")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, unauthorized("Not authenticated")
	}
	claims, err := verifyAccessToken(secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, unauthorized("Could not validate credentials")
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer token，成功後將 claims 放入 context
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, secret)
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// CurrentClaims 取得 RequireAuth 放入的 claims
func CurrentClaims(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// CurrentEmail 由 bearer token 解析出呼叫者 Email
func CurrentEmail(c echo.Context) (string, bool) {
	claims, ok := CurrentClaims(c)
	if !ok || claims.Email == "" {
		return "", false
	}
	return claims.Email, true
}
