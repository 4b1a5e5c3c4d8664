// File: internal/media/media.go
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contacts-api/internal/config"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNoPublicID 圖床回應缺少識別碼
	ErrNoPublicID = errors.New("media: upload response has no public id")
	// ErrUnsupportedImage 上傳內容不是可接受的圖片
	ErrUnsupportedImage = errors.New("media: unsupported image type")
	// ErrUnknownProvider MEDIA_PROVIDER 不是 cloudinary 或 s3
	ErrUnknownProvider = errors.New("media: unknown provider")
)

// allowedTypes 可接受的頭像 MIME 類型
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Result 上傳成功後的識別碼與 PNG 網址
type Result struct {
	PublicID string
	URL      string
}

// Uploader 將圖片原始位元組上傳至圖床
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (*Result, error)
}

// Sniff 依內容判斷 MIME 類型，只接受常見圖片格式
func Sniff(data []byte) (string, error) {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	if !allowedTypes[mt] {
		return mt, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt)
	}
	return mt, nil
}

// New 依設定建立對應供應商的 Uploader
func New(ctx context.Context, cfg config.MediaConfig) (Uploader, error) {
	switch cfg.Provider {
	case "cloudinary":
		return NewCloudinaryUploader(cfg.CloudName, cfg.CloudAPIKey, cfg.CloudAPISecret)
	case "s3":
		return NewS3Uploader(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
