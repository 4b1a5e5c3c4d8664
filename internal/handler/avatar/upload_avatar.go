// File: internal/handler/avatar/upload_avatar.go
package avatar

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"contacts-api/internal/api"
	"contacts-api/internal/media"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// failedUpload 圖床失敗時回傳給用戶端的訊息
const failedUpload = "Failed to upload avatar"

// UploadAvatarHandler 接收 multipart 欄位 file，上傳至圖床並回傳 PNG 網址
// @Summary     Upload avatar
// @Description 上傳頭像圖片至圖床資料夾，回傳 PNG 格式的公開網址
// @Tags        avatar
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "頭像圖片"
// @Success     200  {object} api.AvatarResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     413  {object} api.ErrorResponse
// @Failure     415  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /upload-avatar/ [post]
func UploadAvatarHandler(uploader media.Uploader, folder string, maxBytes int64, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "file is required"})
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Message: fmt.Sprintf("file exceeds %d bytes", maxBytes)})
		}

		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "cannot read file"})
		}
		defer f.Close()

		limit := maxBytes
		if limit <= 0 {
			limit = fh.Size
		}
		data, err := io.ReadAll(io.LimitReader(f, limit+1))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "cannot read file"})
		}
		if int64(len(data)) > limit {
			return c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Message: fmt.Sprintf("file exceeds %d bytes", limit)})
		}

		if _, err := media.Sniff(data); err != nil {
			return c.JSON(http.StatusUnsupportedMediaType, api.ErrorResponse{Message: err.Error()})
		}

		res, err := uploader.Upload(c.Request().Context(), data, folder)
		if err != nil {
			if errors.Is(err, media.ErrUnsupportedImage) {
				return c.JSON(http.StatusUnsupportedMediaType, api.ErrorResponse{Message: err.Error()})
			}
			log.Error("avatar upload failed", zap.String("filename", fh.Filename), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: failedUpload})
		}
		return c.JSON(http.StatusOK, api.AvatarResponse{AvatarURL: res.URL})
	}
}
