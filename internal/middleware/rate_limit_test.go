package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	now := time.Now()

	if ok, _ := limiter.Allow("1.2.3.4", now); !ok {
		t.Fatal("first request must be allowed")
	}
	if ok, remaining := limiter.Allow("1.2.3.4", now); !ok || remaining != 0 {
		t.Fatalf("second request: allowed=%v remaining=%d", ok, remaining)
	}
	if ok, _ := limiter.Allow("1.2.3.4", now); ok {
		t.Fatal("third request must be rejected")
	}

	// a different IP has its own budget
	if ok, _ := limiter.Allow("5.6.7.8", now); !ok {
		t.Fatal("other IP must be allowed")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	now := time.Now()

	if ok, _ := limiter.Allow("1.2.3.4", now); !ok {
		t.Fatal("first request must be allowed")
	}
	if ok, _ := limiter.Allow("1.2.3.4", now); ok {
		t.Fatal("second request inside the window must be rejected")
	}
	if ok, _ := limiter.Allow("1.2.3.4", now.Add(2*time.Minute)); !ok {
		t.Fatal("request after the window must be allowed again")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("request %d: missing X-RateLimit-Limit header", i+1)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}
