package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/ragcipe/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.Claims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(validator TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(validator))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	validator := NewJWTValidator("test-secret")
	valid := signToken(t, "test-secret", types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "frontend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, jwt.SigningMethodHS256)
	expired := signToken(t, "test-secret", types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "frontend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, jwt.SigningMethodHS256)
	wrongKey := signToken(t, "other-secret", types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "frontend"},
	}, jwt.SigningMethodHS256)
	noSubject := signToken(t, "test-secret", types.TokenClaims{}, jwt.SigningMethodHS256)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "valid token", header: "Bearer " + valid, wantCode: http.StatusOK, wantBody: "frontend"},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized, wantBody: "missing authorization header"},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized, wantBody: "invalid authorization header format"},
		{name: "expired", header: "Bearer " + expired, wantCode: http.StatusUnauthorized, wantBody: "invalid token"},
		{name: "wrong key", header: "Bearer " + wrongKey, wantCode: http.StatusUnauthorized, wantBody: "invalid token"},
		{name: "no subject", header: "Bearer " + noSubject, wantCode: http.StatusUnauthorized, wantBody: "token has no subject"},
	}

	router := newAuthRouter(validator)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestJWTValidatorRejectsNonHMAC(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "frontend"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTValidator("test-secret").ValidateToken(token)
	assert.Error(t, err)
}

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.RateLimitMiddleware())
	r.POST("/api/v1/recommendations", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRecommendationRateLimiter(client, 2)
	fixed := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	router := newLimitedRouter(rl)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	blocked := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2700", blocked.Header().Get("Retry-After"))

	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body.Error)

	// other clients have their own window
	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)

	// the window key expires with the window
	ttl := mr.TTL("rate_limit:recommendations:ip:10.0.0.1:" + "1772359200")
	assert.Equal(t, time.Hour, ttl)
}

func TestRateLimitMiddlewareContinuesWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	router := newLimitedRouter(NewRecommendationRateLimiter(client, 1))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
	}

	w := httptest.NewRecorder()
	newLimitedRouter(NewRecommendationRateLimiter(nil, 1)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.POST("/api/v1/choices", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/choices", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/choices", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
