// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"contacts-api/internal/api"
	"contacts-api/internal/cache"
	"contacts-api/internal/database"

	"github.com/labstack/echo/v4"
)

// probeKey 健康檢查時寫入 Redis 的鍵
const probeKey = "healthz:probe"

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /healthz [get]
func PingHandler(db database.DB, c cache.Cache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx := ctx.Request().Context()
		if err := db.Ping(reqCtx); err != nil {
			return ctx.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "database unhealthy"})
		}
		if err := c.Set(reqCtx, probeKey, time.Now().Unix(), 10*time.Second).Err(); err != nil {
			return ctx.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "cache unhealthy"})
		}
		return ctx.JSON(http.StatusOK, api.MessageResponse{Message: "pong"})
	}
}
