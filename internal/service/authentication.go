// File: internal/service/authentication.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"contacts-api/internal/cache"
	"contacts-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidToken 令牌無效、過期或已撤銷
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidCredentials 帳號或密碼錯誤
var ErrInvalidCredentials = errors.New("invalid credentials")

// refreshTokenPrefix Redis 中 refresh token 的前綴
const refreshTokenPrefix = "refresh_token:"

var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshTokenData 存放於 Redis 的 refresh token 內容
type RefreshTokenData struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
}

// AuthenticateUser 以 bcrypt 比對使用者密碼
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 HS256 JWT
func IssueAccessToken(secret string, user model.User, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(secret, tokenString string) (*CustomClaims, error) {
	if secret == "" {
		return nil, errors.New("jwt secret not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueRefreshToken 產生不透明的 refresh token 並存入 Redis
func IssueRefreshToken(ctx context.Context, c cache.Cache, user model.User, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	data, err := jsonMarshal(RefreshTokenData{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("encode refresh token: %w", err)
	}
	if err := c.Set(ctx, refreshTokenPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// ValidateRefreshToken 讀取 Redis 中的 refresh token 內容
func ValidateRefreshToken(ctx context.Context, c cache.Cache, token string) (*RefreshTokenData, error) {
	val, err := c.Get(ctx, refreshTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}

	var data RefreshTokenData
	if err := jsonUnmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}
	return &data, nil
}
