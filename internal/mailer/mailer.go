// File: internal/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"

	"contacts-api/internal/config"
)

// ErrUnknownProvider MAIL_PROVIDER 不是 smtp 或 ses
var ErrUnknownProvider = errors.New("mailer: unknown provider")

// Message 一封以模板渲染的 HTML 郵件
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	Template string
	Data     map[string]any
}

// Sender 寄出郵件；失敗不重試
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New 依設定建立對應供應商的 Sender
func New(ctx context.Context, cfg config.MailConfig) (Sender, error) {
	r := NewRenderer()
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg, r)
	case "ses":
		return NewSESSender(ctx, cfg, r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
