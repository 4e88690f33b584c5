package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkwell-api/internal/config"

	"github.com/gin-gonic/gin"
)

func TestLoginRateLimitRule(t *testing.T) {
	rule := loginRateLimitRule("inkwell:rate:login", config.LoginRateLimitConfig{
		WindowSeconds: 60,
		MaxAttempts:   5,
		BlockSeconds:  300,
	})
	if rule.Prefix != "inkwell:rate:login" || rule.WindowSeconds != 60 || rule.MaxRequests != 5 {
		t.Fatalf("rule mismatch: %+v", rule)
	}
	if rule.BlockSeconds != 300 {
		t.Fatalf("block seconds want 300 got %d", rule.BlockSeconds)
	}

	// 封禁时长短于窗口没有意义,按未配置处理
	rule = loginRateLimitRule("inkwell:rate:login", config.LoginRateLimitConfig{
		WindowSeconds: 60,
		MaxAttempts:   5,
		BlockSeconds:  10,
	})
	if rule.BlockSeconds != 0 {
		t.Fatalf("sub-window block should be disabled, got %d", rule.BlockSeconds)
	}
}

func newRateLimitTestContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "10.0.0.9:4321"
	return c
}

func TestKeyByIPAndJSONField(t *testing.T) {
	c := newRateLimitTestContext(t, `{"email":" Reader@Example.com "}`)

	key := KeyByIPAndJSONField("email")(c)
	if key != "reader@example.com|10.0.0.9" {
		t.Fatalf("key want reader@example.com|10.0.0.9 got %s", key)
	}

	// 读取字段后 body 必须可被后续 handler 再次读取
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Reader@Example.com") {
		t.Fatalf("request body should be restored, got %s", body)
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	for _, body := range []string{`{}`, `{"email":""}`, `not json`, ``} {
		c := newRateLimitTestContext(t, body)
		key := KeyByIPAndJSONField("email")(c)
		if key != "10.0.0.9" {
			t.Fatalf("body %q: expected pure IP key, got %s", body, key)
		}
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{Prefix: "ink:rate:test", WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 没有 Redis 客户端时限流直接放行
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass through, got %d %s", i, w.Code, w.Body.String())
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		input interface{}
		want  int64
		ok    bool
	}{
		{int64(10), 10, true},
		{int(11), 11, true},
		{uint8(12), 12, true},
		{float64(13.9), 13, true},
		{"bad", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := toInt64(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("toInt64(%v) = (%d, %v), want (%d, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
