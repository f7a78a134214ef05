package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(t *testing.T, n int, per time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(n, per)
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiterBurst(t *testing.T) {
	rl, _ := newTestLimiter(t, 5, time.Minute)
	for i := 0; i < 5; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Fatal("sixth request should be rate limited")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)
	rl.allow("1.2.3.4")
	rl.allow("1.2.3.4")

	ok, wait := rl.take("1.2.3.4")
	if ok || wait <= 0 || wait > 30*time.Second {
		t.Fatalf("expected to wait up to 30s, got ok=%v wait=%v", ok, wait)
	}

	clock.advance(30 * time.Second)
	if !rl.allow("1.2.3.4") {
		t.Fatal("token should have refilled")
	}
}

func TestRateLimiterSeparateClients(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	rl.allow("1.1.1.1")
	if !rl.allow("2.2.2.2") {
		t.Fatal("different client should have its own bucket")
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)
	rl.allow("1.1.1.1")
	clock.advance(11 * time.Minute)
	rl.allow("2.2.2.2")

	rl.evictIdle()
	if _, ok := rl.clients["1.1.1.1"]; ok {
		t.Error("idle client should have been evicted")
	}
	if _, ok := rl.clients["2.2.2.2"]; !ok {
		t.Error("active client should be kept")
	}
}

func TestRateLimiterMiddleware429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(t, 1, time.Minute)

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest("POST", "/login", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("POST", "/login", nil))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if w2.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}
