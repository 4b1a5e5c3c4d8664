// File: internal/mailer/smtp.go
package mailer

import (
	"context"
	"fmt"

	"contacts-api/internal/config"

	"github.com/wneessen/go-mail"
)

// smtpDialer 由 *mail.Client 實作
type smtpDialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender 透過 SMTP (implicit TLS 或 STARTTLS) 寄信
type SMTPSender struct {
	client   smtpDialer
	from     string
	fromName string
	renderer *Renderer
}

var newMailClient = func(host string, opts ...mail.Option) (smtpDialer, error) {
	return mail.NewClient(host, opts...)
}

// smtpOptions 轉換連線設定；憑證一律以 PLAIN 認證
func smtpOptions(cfg config.MailConfig) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	}
	switch {
	case cfg.SSLTLS:
		opts = append(opts, mail.WithSSL())
	case cfg.StartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	return opts
}

// NewSMTPSender 建立 SMTP 寄件器
func NewSMTPSender(cfg config.MailConfig, r *Renderer) (*SMTPSender, error) {
	client, err := newMailClient(cfg.Server, smtpOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{
		client:   client,
		from:     cfg.Sender(),
		fromName: cfg.FromName,
		renderer: r,
	}, nil
}

// build 組裝 MIME 郵件
func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	body, err := s.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, body)
	return m, nil
}

// Send 渲染模板並寄出
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
