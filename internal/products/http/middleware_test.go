package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func middlewareRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	r := middlewareRouter(RequestIDMiddleware())

	t.Run("generates an id when none is sent", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got == "" {
			t.Fatal("expected a generated request id")
		}
	})

	t.Run("echoes the caller's id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(requestIDHeader, "req-123")
		r.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "req-123" {
			t.Fatalf("want req-123, got %q", got)
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		allowed     []string
		origin      string
		wantAllow   string
	}{
		{
			name:        "development allows any origin",
			environment: "development",
			origin:      "http://localhost:5173",
			wantAllow:   "http://localhost:5173",
		},
		{
			name:        "production allows listed origin",
			environment: "production",
			allowed:     []string{"https://shop.example.com"},
			origin:      "https://shop.example.com",
			wantAllow:   "https://shop.example.com",
		},
		{
			name:        "production rejects unlisted origin",
			environment: "production",
			allowed:     []string{"https://shop.example.com"},
			origin:      "https://evil.example.com",
			wantAllow:   "",
		},
		{
			name:        "no origin header sets nothing",
			environment: "development",
			wantAllow:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := middlewareRouter(CORSMiddleware(tt.environment, tt.allowed))
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			r.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("want allow-origin %q, got %q", tt.wantAllow, got)
			}
		})
	}

	t.Run("preflight is answered with 204", func(t *testing.T) {
		r := middlewareRouter(CORSMiddleware("development", nil))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("want 204, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Fatal("expected allow-methods on preflight")
		}
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := middlewareRouter(SecurityHeadersMiddleware())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("want %s=%q, got %q", header, value, got)
		}
	}
	if got := w.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("expected a content security policy")
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS should only be set over TLS, got %q", got)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(2, time.Minute)

	if !rl.allow("1.2.3.4", now) {
		t.Fatal("first request should pass")
	}
	if !rl.allow("1.2.3.4", now.Add(time.Second)) {
		t.Fatal("second request should pass")
	}
	if rl.allow("1.2.3.4", now.Add(2*time.Second)) {
		t.Fatal("third request should be rejected")
	}
	if !rl.allow("5.6.7.8", now.Add(2*time.Second)) {
		t.Fatal("a different client has its own window")
	}
	if !rl.allow("1.2.3.4", now.Add(time.Minute)) {
		t.Fatal("expired window should reset the counter")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Run("rejects over the limit in production", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		r := middlewareRouter(rl.Middleware("production"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("first request: want 200, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("second request: want 429, got %d", w.Code)
		}
	})

	t.Run("skipped in development", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		r := middlewareRouter(rl.Middleware("development"))

		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("request %d: want 200, got %d", i, w.Code)
			}
		}
	})
}
