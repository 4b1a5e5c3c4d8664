// File: internal/handler/auth/token.go
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"contacts-api/internal/api"
	"contacts-api/internal/cache"
	"contacts-api/internal/database"
	"contacts-api/internal/model"
	"contacts-api/internal/service"

	"github.com/labstack/echo/v4"
)

// TokenConfig 簽章金鑰與令牌有效期
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func invalidGrant(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: msg})
}

// TokenHandler OAuth2 token 端點，支援 password 與 refresh_token grant
// @Summary     OAuth2 obtain access token
// @Description 以 Email/密碼或 refresh token 換取 JWT access token
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       grant_type    formData string true  "password 或 refresh_token"
// @Param       username      formData string false "Email (password grant)"
// @Param       password      formData string false "密碼 (password grant)"
// @Param       refresh_token formData string false "Refresh token (refresh_token grant)"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /token [post]
func TokenHandler(db database.DB, rdb cache.Cache, cfg TokenConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		var req api.TokenRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "unsupported grant_type"})
		}

		var (
			user         *model.User
			refreshToken string
			err          error
		)

		switch req.GrantType {
		case "password":
			user, err = getUserByEmail(ctx, db, strings.ToLower(strings.TrimSpace(req.Username)))
			if err != nil {
				return invalidGrant(c, "Incorrect username or password")
			}
			if err := authenticateUser(ctx, *user, req.Password); err != nil {
				return invalidGrant(c, "Incorrect username or password")
			}
			refreshToken, err = issueRefreshToken(ctx, rdb, *user, cfg.RefreshTTL)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue refresh token"})
			}

		case "refresh_token":
			if req.RefreshToken == "" {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "refresh_token is required"})
			}
			data, err := validateRefreshToken(ctx, rdb, req.RefreshToken)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					return invalidGrant(c, "invalid refresh token")
				}
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to validate refresh token"})
			}
			user, err = getUserByID(ctx, db, data.UserID)
			if err != nil {
				return invalidGrant(c, "invalid refresh token")
			}
			// reuse same refresh token
			refreshToken = req.RefreshToken

		default:
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "unsupported grant_type"})
		}

		accessToken, err := issueAccessToken(cfg.Secret, *user, cfg.AccessTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken:  accessToken,
			TokenType:    "bearer",
			ExpiresIn:    int(cfg.AccessTTL.Seconds()),
			RefreshToken: refreshToken,
		})
	}
}
