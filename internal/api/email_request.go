// File: internal/api/email_request.go
package api

// EmailRequest 寄送範本郵件的收件者
// swagger:model api.EmailRequest
type EmailRequest struct {
	Email    string `json:"email" validate:"required,email" example:"billy@example.com"`
	Fullname string `json:"fullname" validate:"max=100" example:"Billy Jones"`
}
