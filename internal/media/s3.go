// File: internal/media/s3.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF decode support
	_ "image/jpeg" // JPEG decode support
	"image/png"
	"path"
	"strings"

	"contacts-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decode support
)

// MaxAvatarSide 頭像最長邊像素
const MaxAvatarSide = 512

// s3API 由 *s3.Client 實作
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader 將頭像轉為 PNG 後存入 S3，透過公開網址 (CDN) 提供
type S3Uploader struct {
	client     s3API
	bucket     string
	publicBase string
	newID      func() string
}

var loadAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Uploader 建立 S3 上傳器；未提供金鑰時使用預設憑證鏈
func NewS3Uploader(ctx context.Context, cfg config.MediaConfig) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Uploader{
		client:     s3.NewFromConfig(awsCfg),
		bucket:     cfg.S3Bucket,
		publicBase: strings.TrimRight(cfg.S3PublicBase, "/"),
		newID:      uuid.NewString,
	}, nil
}

// Upload 解碼、縮圖並以 PNG 存放於 folder/<uuid>.png
func (u *S3Uploader) Upload(ctx context.Context, data []byte, folder string) (*Result, error) {
	body, err := ToPNG(data, MaxAvatarSide)
	if err != nil {
		return nil, err
	}

	id := u.newID()
	if id == "" {
		return nil, ErrNoPublicID
	}
	publicID := path.Join(folder, id)
	key := publicID + ".png"

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return nil, fmt.Errorf("putting object to S3: %w", err)
	}
	return &Result{PublicID: publicID, URL: u.publicBase + "/" + key}, nil
}

// ToPNG 解碼圖片，必要時等比縮至 maxSide 後重新編碼為 PNG
func ToPNG(data []byte, maxSide int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img := src
	b := src.Bounds()
	if w, h := b.Dx(), b.Dy(); maxSide > 0 && (w > maxSide || h > maxSide) {
		nw, nh := maxSide, maxSide
		if w > h {
			nh = h * maxSide / w
		} else {
			nw = w * maxSide / h
		}
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
