package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/profolio/pkg/helpers"
)

type sessions map[string]string

func (s sessions) SessionActive(_ context.Context, uid, sid string) bool { return s[uid] == sid }

func init() { gin.SetMode(gin.TestMode) }

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, 2, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do("203.0.113.5").Code)
	w := do("203.0.113.5")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do("203.0.113.5")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// separate bucket per client
	assert.Equal(t, http.StatusNoContent, do("203.0.113.6").Code)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusNoContent, do("203.0.113.5").Code)
}

func TestRateLimitBypass(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Real-IP", "192.168.1.20")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	tok, _, err := jwt.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	stale, _, err := jwt.GenerateAccessToken("u1", "old")
	require.NoError(t, err)
	active := sessions{"u1": "s1"}

	r := gin.New()
	r.GET("/private", Auth(active, jwt), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxUserIDKey)) })
	r.GET("/public", OptionalAuth(active, jwt), func(c *gin.Context) { c.String(http.StatusOK, "<"+c.GetString(CtxUserIDKey)+">") })

	cases := []struct {
		name, path, cookie, bearer string
		status                     int
		body                       string
	}{
		{"cookie", "/private", tok, "", http.StatusOK, "u1"},
		{"bearer", "/private", "", tok, http.StatusOK, "u1"},
		{"missing", "/private", "", "", http.StatusUnauthorized, ""},
		{"garbage", "/private", "nope", "", http.StatusUnauthorized, ""},
		{"rotated session", "/private", stale, "", http.StatusUnauthorized, ""},
		{"optional anonymous", "/public", "", "", http.StatusOK, "<>"},
		{"optional stale", "/public", stale, "", http.StatusOK, "<>"},
		{"optional signed in", "/public", tok, "", http.StatusOK, "<u1>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "5f0c8c3e-8a51-4b8e-9d0b-0d9a6f0e7c11")
	r.ServeHTTP(w, req)
	assert.Equal(t, "5f0c8c3e-8a51-4b8e-9d0b-0d9a6f0e7c11", w.Body.String())
}
