package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wavechat/internal/domain/apikey"
	"wavechat/internal/redis"
	"wavechat/internal/repository"
	"wavechat/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

func newLimiterFixture(t *testing.T, limit int) (*redis.RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewRateLimiter(client, redis.RateLimitConfig{APILimit: limit, APIWindow: 60 * time.Second}), mr
}

// The limiter is registered after the key guard, so the window must key
// on the resolved API key, never on the caller's address.
func TestAPIRateLimitMiddleware_WindowKeysOnAPIKey(t *testing.T) {
	repo := repository.NewAPIKeyRepository(openTestDB(t))
	keys := services.NewAPIKeyService(repo)
	analytics := services.NewAnalyticsService(nil, nil, nil, repo, nil)
	limiter, mr := newLimiterFixture(t, 10)

	key, raw, err := keys.Generate(context.Background(), uuid.New(), "ci", []string{apikey.ScopeRead})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := gin.New()
	r.GET("/v1/files",
		APIKeyMiddleware(keys, analytics, apikey.ScopeRead),
		APIRateLimitMiddleware(limiter),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.RemoteAddr = "203.0.113.9:4567"
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !mr.Exists("ratelimit:" + key.ID.String() + ":api") {
		t.Fatalf("expected a window for key %s, found %v", key.ID, mr.Keys())
	}
	if mr.Exists("ratelimit:203.0.113.9:api") {
		t.Fatalf("window keyed on the client address: %v", mr.Keys())
	}
}

func TestAPIRateLimitMiddleware_WindowKeysOnSessionUser(t *testing.T) {
	repo := repository.NewAPIKeyRepository(openTestDB(t))
	keys := services.NewAPIKeyService(repo)
	analytics := services.NewAnalyticsService(nil, nil, nil, repo, nil)
	limiter, mr := newLimiterFixture(t, 10)
	userID := uuid.New()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := services.WithUserSession(c.Request.Context(), userID, uuid.New())
		c.Request = c.Request.WithContext(ctx)
	})
	r.POST("/v1/restore",
		APIKeyOrSession(keys, analytics, apikey.ScopeWrite),
		APIRateLimitMiddleware(limiter),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/restore", nil)
	req.RemoteAddr = "203.0.113.9:4567"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !mr.Exists("ratelimit:" + userID.String() + ":api") {
		t.Fatalf("expected a window for user %s, found %v", userID, mr.Keys())
	}
}

func TestAPIRateLimitMiddleware_DeniesThroughRouteChain(t *testing.T) {
	repo := repository.NewAPIKeyRepository(openTestDB(t))
	keys := services.NewAPIKeyService(repo)
	analytics := services.NewAnalyticsService(nil, nil, nil, repo, nil)
	limiter, _ := newLimiterFixture(t, 1)

	_, raw, err := keys.Generate(context.Background(), uuid.New(), "ci", []string{apikey.ScopeRead})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := gin.New()
	r.GET("/v1/files",
		APIKeyMiddleware(keys, analytics, apikey.ScopeRead),
		APIRateLimitMiddleware(limiter),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("call %d: expected %d, got %d", i, want, w.Code)
		}
	}
}
