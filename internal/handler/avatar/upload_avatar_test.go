package avatar

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"contacts-api/internal/media"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeUploader struct {
	folder string
	data   []byte
	res    *media.Result
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, data []byte, folder string) (*media.Result, error) {
	f.folder = folder
	f.data = data
	return f.res, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func newUploadCtx(t *testing.T, e *echo.Echo, field string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, "me.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload-avatar/", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadAvatarHandler(t *testing.T) {
	e := echo.New()
	img := pngBytes(t)

	t.Run("missing file", func(t *testing.T) {
		ctx, rec := newUploadCtx(t, e, "", nil)
		require.NoError(t, UploadAvatarHandler(&fakeUploader{}, "avatars", 1<<20, zap.NewNop())(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		ctx, rec := newUploadCtx(t, e, "file", img)
		require.NoError(t, UploadAvatarHandler(&fakeUploader{}, "avatars", 10, zap.NewNop())(ctx))
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		up := &fakeUploader{}
		ctx, rec := newUploadCtx(t, e, "file", []byte("plain text body"))
		require.NoError(t, UploadAvatarHandler(up, "avatars", 1<<20, zap.NewNop())(ctx))
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		require.Nil(t, up.data)
	})

	t.Run("no public id", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		ctx, rec := newUploadCtx(t, e, "file", img)
		require.NoError(t, UploadAvatarHandler(&fakeUploader{err: media.ErrNoPublicID}, "avatars", 1<<20, zap.New(core))(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"message":"Failed to upload avatar"}`, rec.Body.String())
		require.Equal(t, 1, logs.Len())
	})

	t.Run("host error", func(t *testing.T) {
		ctx, rec := newUploadCtx(t, e, "file", img)
		require.NoError(t, UploadAvatarHandler(&fakeUploader{err: errors.New("timeout")}, "avatars", 1<<20, zap.NewNop())(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("undecodable image", func(t *testing.T) {
		ctx, rec := newUploadCtx(t, e, "file", img)
		require.NoError(t, UploadAvatarHandler(&fakeUploader{err: media.ErrUnsupportedImage}, "avatars", 1<<20, zap.NewNop())(ctx))
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		up := &fakeUploader{res: &media.Result{PublicID: "avatars/x", URL: "https://res.cloudinary.com/demo/image/upload/v1/avatars/x.png"}}
		ctx, rec := newUploadCtx(t, e, "file", img)
		require.NoError(t, UploadAvatarHandler(up, "avatars", 0, zap.NewNop())(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"avatar_url":"https://res.cloudinary.com/demo/image/upload/v1/avatars/x.png"}`, rec.Body.String())
		require.Equal(t, "avatars", up.folder)
		require.Equal(t, img, up.data)
	})
}
