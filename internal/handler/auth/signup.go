// File: internal/handler/auth/signup.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"contacts-api/internal/api"
	"contacts-api/internal/database"
	"contacts-api/internal/model"
	"contacts-api/internal/service"
	"contacts-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword         = service.HashPassword
	authenticateUser     = service.AuthenticateUser
	issueAccessToken     = service.IssueAccessToken
	issueRefreshToken    = service.IssueRefreshToken
	validateRefreshToken = service.ValidateRefreshToken
	createUser           = store.CreateUser
	getUserByEmail       = store.GetUserByEmail
	getUserByID          = store.GetUserByID
)

// SignupHandler 建立可換取 bearer token 的帳號
// @Summary     註冊使用者
// @Description 以 Name、Email、Password 建立帳號，密碼以 bcrypt 雜湊保存
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       name     formData string true "名稱"
// @Param       email    formData string true "Email"
// @Param       password formData string true "密碼"
// @Success     201      {object} api.UserResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     409      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /auth/signup [post]
func SignupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "Account already exists"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create user"})
		}
		return c.JSON(http.StatusCreated, api.NewUserResponse(user))
	}
}
