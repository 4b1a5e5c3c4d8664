// File: internal/handler/contacts/contacts.go
package contacts

import (
	"net/http"

	"contacts-api/internal/api"

	"github.com/labstack/echo/v4"
)

// ReadContactsHandler 公開的聯絡人端點（受限流保護）
// @Summary     Read contacts
// @Description 每個來源 IP 每分鐘最多 5 次
// @Tags        contacts
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     429 {object} api.ErrorResponse
// @Failure     503 {object} api.ErrorResponse
// @Router      /contacts/ [get]
func ReadContactsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Read contacts"})
	}
}

// ReadUserContactsHandler 需登入的聯絡人端點（受限流保護）
// @Summary     Read user contacts
// @Description 需 Bearer token；每個來源 IP 每分鐘最多 5 次
// @Tags        contacts
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     429 {object} api.ErrorResponse
// @Security    OAuth2Password
// @Router      /user/contacts/ [get]
func ReadUserContactsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Read user contacts"})
	}
}
