// File: internal/api/token_request.go
package api

// TokenRequest OAuth2 token 端點表單
// swagger:model api.TokenRequest
type TokenRequest struct {
	GrantType    string `form:"grant_type" validate:"required,oneof=password refresh_token" example:"password"`
	Username     string `form:"username" example:"alice@example.com"`
	Password     string `form:"password" example:"Secret123!"`
	RefreshToken string `form:"refresh_token" example:"..."`
	Scope        string `form:"scope" example:""`
}

// swagger:model api.TokenResponse
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"..."`
	TokenType    string `json:"token_type" example:"bearer"`
	ExpiresIn    int    `json:"expires_in" example:"86400"`
	RefreshToken string `json:"refresh_token,omitempty" example:"..."`
}
