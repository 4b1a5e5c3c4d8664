// File: internal/api/response.go
package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	// message 錯誤描述
	Message string `json:"message" example:"Failed to upload avatar"`
}

// MessageResponse 僅含訊息的回應
// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"Read contacts"`
}

// AvatarResponse 頭像上傳結果
// swagger:model api.AvatarResponse
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url" example:"https://res.cloudinary.com/demo/image/upload/v1/avatars/abc.png"`
}
