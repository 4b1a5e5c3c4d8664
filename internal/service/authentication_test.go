package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"contacts-api/internal/cache"
	"contacts-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	randRead = rand.Read
	jsonMarshal = json.Marshal
	jsonUnmarshal = json.Unmarshal
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, _ := HashPassword("pw")
	u := model.User{PasswordHash: hash}
	require.NoError(t, AuthenticateUser(context.Background(), u, "pw"))
	require.ErrorIs(t, AuthenticateUser(context.Background(), u, "bad"), ErrInvalidCredentials)
	require.ErrorIs(t, AuthenticateUser(context.Background(), model.User{}, ""), ErrInvalidCredentials)
}

func TestIssueAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, err := IssueAccessToken("", model.User{}, time.Minute)
	require.Error(t, err)

	tok, err := IssueAccessToken("s", model.User{ID: 5, Email: "a@b.com"}, time.Minute)
	require.NoError(t, err)
	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil })
	require.NoError(t, err)
	require.Equal(t, 5, claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "5", claims.Subject)
}

func TestVerifyAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, err := VerifyAccessToken("", "abc")
	require.Error(t, err)

	_, err = VerifyAccessToken("s", "invalid")
	require.ErrorIs(t, err, ErrInvalidToken)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"foo": "bar"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = VerifyAccessToken("s", tokNone)
	require.ErrorIs(t, err, ErrInvalidToken)

	other, _ := IssueAccessToken("other", model.User{ID: 3, Email: "a@b.com"}, time.Minute)
	_, err = VerifyAccessToken("s", other)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, _ := IssueAccessToken("s", model.User{ID: 3, Email: "a@b.com"}, -time.Minute)
	_, err = VerifyAccessToken("s", expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	noEmail, _ := IssueAccessToken("s", model.User{ID: 3}, time.Minute)
	_, err = VerifyAccessToken("s", noEmail)
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = func(s string, c jwt.Claims, k jwt.Keyfunc, opts ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = VerifyAccessToken("s", "whatever")
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = jwt.ParseWithClaims
	tok, _ := IssueAccessToken("s", model.User{ID: 3, Email: "a@b.com"}, time.Minute)
	claims, err := VerifyAccessToken("s", tok)
	require.NoError(t, err)
	require.Equal(t, 3, claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
}

func TestIssueRefreshToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c := &cache.FakeCache{}
	u := model.User{ID: 1, Email: "a@b.com"}

	randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
	_, err := IssueRefreshToken(ctx, c, u, time.Second)
	require.Error(t, err)

	randRead = rand.Read
	jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("json") }
	_, err = IssueRefreshToken(ctx, c, u, time.Second)
	require.Error(t, err)

	jsonMarshal = json.Marshal
	c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
		return redis.NewStatusResult("", errors.New("set"))
	}
	_, err = IssueRefreshToken(ctx, c, u, time.Second)
	require.Error(t, err)

	var storedKey string
	var storedVal []byte
	var storedTTL time.Duration
	c.SetFn = func(_ context.Context, key string, val any, ttl time.Duration) *redis.StatusCmd {
		storedKey = key
		storedVal = val.([]byte)
		storedTTL = ttl
		return redis.NewStatusResult("OK", nil)
	}
	tok, err := IssueRefreshToken(ctx, c, u, time.Hour)
	require.NoError(t, err)
	require.Equal(t, "refresh_token:"+tok, storedKey)
	require.Equal(t, time.Hour, storedTTL)
	decoded, _ := base64.RawURLEncoding.DecodeString(tok)
	require.Len(t, decoded, 32)
	var d RefreshTokenData
	require.NoError(t, json.Unmarshal(storedVal, &d))
	require.Equal(t, 1, d.UserID)
	require.Equal(t, "a@b.com", d.Email)
}

func TestValidateRefreshToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c := &cache.FakeCache{}

	c.GetFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("", redis.Nil)
	}
	_, err := ValidateRefreshToken(ctx, c, "tok")
	require.ErrorIs(t, err, ErrInvalidToken)

	c.GetFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("", errors.New("get"))
	}
	_, err = ValidateRefreshToken(ctx, c, "tok")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidToken)

	c.GetFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("bad", nil)
	}
	_, err = ValidateRefreshToken(ctx, c, "tok")
	require.Error(t, err)

	dataBytes, _ := json.Marshal(RefreshTokenData{UserID: 2, Email: "c@d.com"})
	c.GetFn = func(_ context.Context, key string) *redis.StringCmd {
		require.Equal(t, "refresh_token:tok", key)
		return redis.NewStringResult(string(dataBytes), nil)
	}
	data, err := ValidateRefreshToken(ctx, c, "tok")
	require.NoError(t, err)
	require.Equal(t, 2, data.UserID)
	require.Equal(t, "c@d.com", data.Email)
}
