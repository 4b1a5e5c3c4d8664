// File: internal/media/cloudinary.go
package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// cloudinaryAPI 由 *uploader.API 實作
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader 上傳至 Cloudinary，回傳 PNG 格式的 https 網址
type CloudinaryUploader struct {
	api cloudinaryAPI
	cld *cloudinary.Cloudinary
}

var newCloudinary = cloudinary.NewFromParams

// NewCloudinaryUploader 以帳號憑證建立 Cloudinary 上傳器
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := newCloudinary(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{api: &cld.Upload, cld: cld}, nil
}

// Upload 上傳至指定資料夾；回應沒有 public id 時回傳 ErrNoPublicID
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, folder string) (*Result, error) {
	resp, err := u.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp == nil || resp.PublicID == "" {
		if resp != nil && resp.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoPublicID, resp.Error.Message)
		}
		return nil, ErrNoPublicID
	}
	url, err := u.deliveryURL(resp.PublicID)
	if err != nil {
		return nil, err
	}
	return &Result{PublicID: resp.PublicID, URL: url}, nil
}

// deliveryURL 以 SDK 產生 PNG 格式的傳遞網址（含版本段與 CDN 設定）
func (u *CloudinaryUploader) deliveryURL(publicID string) (string, error) {
	img, err := u.cld.Image(publicID + ".png")
	if err != nil {
		return "", fmt.Errorf("cloudinary url: %w", err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("cloudinary url: %w", err)
	}
	return url, nil
}
