package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contacts-api/internal/model"
	"contacts-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecret"

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireStatus(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
}

func TestExtractClaims(t *testing.T) {
	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx, testSecret)
	requireStatus(t, err, http.StatusUnauthorized)

	// bad format
	ctx, _ = newContext("BadHeader")
	_, err = extractClaims(ctx, testSecret)
	requireStatus(t, err, http.StatusUnauthorized)

	// empty token
	ctx, _ = newContext("Bearer  ")
	_, err = extractClaims(ctx, testSecret)
	requireStatus(t, err, http.StatusUnauthorized)

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx, testSecret)
	requireStatus(t, err, http.StatusUnauthorized)

	// valid token, lowercase scheme
	tok, err := service.IssueAccessToken(testSecret, model.User{ID: 1, Email: "a@b.com"}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("bearer " + tok)
	claims, err := extractClaims(ctx, testSecret)
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
}

func TestRequireAuth(t *testing.T) {
	tok, err := service.IssueAccessToken(testSecret, model.User{ID: 2, Email: "me@x.com"}, time.Minute)
	require.NoError(t, err)

	// success path
	ctx, rec := newContext("Bearer " + tok)
	called := false
	handler := RequireAuth(testSecret)(func(c echo.Context) error {
		called = true
		cl, ok := CurrentClaims(c)
		require.True(t, ok)
		require.Equal(t, 2, cl.UserID)
		email, ok := CurrentEmail(c)
		require.True(t, ok)
		require.Equal(t, "me@x.com", email)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// missing token
	ctx, rec = newContext("")
	called = false
	err = RequireAuth(testSecret)(func(echo.Context) error { called = true; return nil })(ctx)
	requireStatus(t, err, http.StatusUnauthorized)
	require.False(t, called)
	require.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	// token signed with another secret
	ctx, _ = newContext("Bearer " + tok)
	err = RequireAuth("other")(func(echo.Context) error { called = true; return nil })(ctx)
	requireStatus(t, err, http.StatusUnauthorized)
	require.False(t, called)
}

func TestCurrentEmailWithoutClaims(t *testing.T) {
	ctx, _ := newContext("")
	_, ok := CurrentClaims(ctx)
	require.False(t, ok)
	_, ok = CurrentEmail(ctx)
	require.False(t, ok)

	ctx.Set(ContextUserKey, &service.CustomClaims{UserID: 1})
	_, ok = CurrentEmail(ctx)
	require.False(t, ok)
}
