// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 服務執行所需的全部設定，由環境變數載入
type Config struct {
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	BodyLimit string `envconfig:"BODY_LIMIT" default:"12M"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	MigrateDown bool   `envconfig:"MIGRATE_DOWN" default:"false"`

	RedisAddr     string `envconfig:"REDIS_ADDR" required:"true"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`

	RateLimitTimes  int           `envconfig:"RATE_LIMIT_TIMES" default:"5"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	TrustProxy      bool          `envconfig:"TRUST_PROXY" default:"false"`

	WorkerCount int `envconfig:"WORKER_COUNT" default:"1"`

	Mail  MailConfig
	Media MediaConfig
}

// MailConfig 郵件寄送設定
type MailConfig struct {
	Provider string `envconfig:"MAIL_PROVIDER" default:"smtp"`
	Username string `envconfig:"MAIL_USERNAME"`
	Password string `envconfig:"MAIL_PASSWORD"`
	From     string `envconfig:"MAIL_FROM"`
	FromName string `envconfig:"MAIL_FROM_NAME" default:"TODO Systems"`
	Server   string `envconfig:"MAIL_SERVER"`
	Port     int    `envconfig:"MAIL_PORT" default:"465"`
	SSLTLS   bool   `envconfig:"MAIL_SSL_TLS" default:"true"`
	StartTLS bool   `envconfig:"MAIL_STARTTLS" default:"false"`
	Subject  string `envconfig:"MAIL_SUBJECT" default:"Contacts mail module"`
	Fullname string `envconfig:"MAIL_DEFAULT_FULLNAME" default:"Billy Jones"`

	Timeout time.Duration `envconfig:"MAIL_TIMEOUT" default:"30s"`

	SESRegion    string `envconfig:"SES_REGION" default:"us-east-1"`
	SESAccessKey string `envconfig:"SES_ACCESS_KEY"`
	SESSecretKey string `envconfig:"SES_SECRET_KEY"`
}

// Sender 回傳寄件者位址；未設定 MAIL_FROM 時沿用帳號
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.Username
}

// MediaConfig 頭像圖床設定
type MediaConfig struct {
	Provider string `envconfig:"MEDIA_PROVIDER" default:"cloudinary"`
	Folder   string `envconfig:"MEDIA_FOLDER" default:"avatars"`
	MaxBytes int64  `envconfig:"MEDIA_MAX_BYTES" default:"10485760"`

	CloudName      string `envconfig:"CLD_NAME"`
	CloudAPIKey    string `envconfig:"CLD_API_KEY"`
	CloudAPISecret string `envconfig:"CLD_API_SECRET"`

	S3Bucket     string `envconfig:"S3_BUCKET"`
	S3Region     string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey  string `envconfig:"S3_SECRET_KEY"`
	S3PublicBase string `envconfig:"S3_PUBLIC_BASE_URL"`
}

var (
	loadDotenv = godotenv.Load
	process    = envconfig.Process
)

// Load 讀取 .env（若存在）後解析環境變數並驗證
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 檢查各供應商所需的憑證
func (c *Config) Validate() error {
	if c.RateLimitTimes <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_TIMES: %d", c.RateLimitTimes)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_WINDOW: %s", c.RateLimitWindow)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("invalid WORKER_COUNT: %d", c.WorkerCount)
	}

	switch c.Mail.Provider {
	case "smtp":
		if c.Mail.Server == "" || c.Mail.Username == "" || c.Mail.Password == "" {
			return errors.New("MAIL_SERVER, MAIL_USERNAME and MAIL_PASSWORD are required for smtp")
		}
		if c.Mail.SSLTLS && c.Mail.StartTLS {
			return errors.New("MAIL_SSL_TLS and MAIL_STARTTLS are mutually exclusive")
		}
	case "ses":
		if c.Mail.Sender() == "" {
			return errors.New("MAIL_FROM is required for ses")
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER: %q", c.Mail.Provider)
	}

	switch c.Media.Provider {
	case "cloudinary":
		if c.Media.CloudName == "" || c.Media.CloudAPIKey == "" || c.Media.CloudAPISecret == "" {
			return errors.New("CLD_NAME, CLD_API_KEY and CLD_API_SECRET are required for cloudinary")
		}
	case "s3":
		if c.Media.S3Bucket == "" || c.Media.S3PublicBase == "" {
			return errors.New("S3_BUCKET and S3_PUBLIC_BASE_URL are required for s3")
		}
	default:
		return fmt.Errorf("unknown MEDIA_PROVIDER: %q", c.Media.Provider)
	}
	return nil
}
