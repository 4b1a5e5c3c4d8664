// File: internal/handler/email/send_email.go
package email

import (
	"context"
	"net/http"
	"strings"
	"time"

	"contacts-api/internal/api"
	"contacts-api/internal/mailer"
	"contacts-api/internal/middleware"
	"contacts-api/internal/worker"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DefaultTemplate 寄信使用的範本
const DefaultTemplate = "example_email.html"

// Options 寄信端點的固定內容
type Options struct {
	Subject         string
	Template        string
	FromName        string
	DefaultFullname string
	Timeout         time.Duration
}

// SendEmailHandler 驗證收件者後將寄信排入背景工作池，立即回應
// @Summary     Send templated email
// @Description 以固定範本寄出 HTML 郵件；寄送在回應之後於背景執行，失敗只記錄不重試
// @Tags        email
// @Accept      json
// @Produce     json
// @Param       body body     api.EmailRequest true "收件者"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     503  {object} api.ErrorResponse
// @Security    OAuth2Password
// @Router      /send-email [post]
func SendEmailHandler(pool worker.Pool, sender mailer.Sender, opts Options, log *zap.Logger) echo.HandlerFunc {
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return func(c echo.Context) error {
		var req api.EmailRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		fullname := strings.TrimSpace(req.Fullname)
		if fullname == "" {
			fullname = opts.DefaultFullname
		}
		msg := mailer.Message{
			To:       strings.ToLower(strings.TrimSpace(req.Email)),
			Subject:  opts.Subject,
			Template: opts.Template,
			Data: map[string]any{
				"fullname":  fullname,
				"from_name": opts.FromName,
			},
		}
		if caller, ok := middleware.CurrentEmail(c); ok {
			msg.ReplyTo = caller
		}

		err := pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
			defer cancel()
			if err := sender.Send(ctx, msg); err != nil {
				log.Error("send email failed", zap.String("to", msg.To), zap.Error(err))
				return
			}
			log.Info("email sent", zap.String("to", msg.To))
		})
		if err != nil {
			log.Error("queue email failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "email queue unavailable"})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "email has been sent"})
	}
}
