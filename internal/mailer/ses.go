// File: internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"contacts-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI 由 *sesv2.Client 實作
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender 透過 AWS SES v2 寄信
type SESSender struct {
	client   sesAPI
	from     string
	fromName string
	renderer *Renderer
}

var loadAWSConfig = awsconfig.LoadDefaultConfig

// NewSESSender 建立 SES 寄件器；未提供金鑰時使用預設憑證鏈
func NewSESSender(ctx context.Context, cfg config.MailConfig, r *Renderer) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SESRegion)}
	if cfg.SESAccessKey != "" && cfg.SESSecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SESAccessKey, cfg.SESSecretKey, ""),
		))
	}
	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SESSender{
		client:   sesv2.NewFromConfig(awsCfg),
		from:     cfg.Sender(),
		fromName: cfg.FromName,
		renderer: r,
	}, nil
}

func (s *SESSender) input(msg Message) (*sesv2.SendEmailInput, error) {
	body, err := s.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return nil, err
	}
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.from)),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.ReplyTo != "" {
		in.ReplyToAddresses = []string{msg.ReplyTo}
	}
	return in, nil
}

// Send 渲染模板並呼叫 SES SendEmail
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	in, err := s.input(msg)
	if err != nil {
		return err
	}
	if _, err := s.client.SendEmail(ctx, in); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
