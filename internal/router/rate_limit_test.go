package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitrine-next/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestKeyByIPAndJSONFieldForMerchantLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/merchant/login", strings.NewReader(`{"email":" Loja@Exemplo.com.br ","password":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "10.0.0.7:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "loja@exemplo.com.br|10.0.0.7" {
		t.Fatalf("key want loja@exemplo.com.br|10.0.0.7 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Loja@Exemplo.com.br") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldMissingField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/stores/register", strings.NewReader(`{"store_name":"Loja"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "10.0.0.8:1234"

	if key := KeyByIPAndJSONField("slug")(c); key != "10.0.0.8" {
		t.Fatalf("missing field should fall back to ip, got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.POST("/stores/register", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/stores/register", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status want 200 got %d", i, w.Code)
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("toInt64(%v) want (%d,%v) got (%d,%v)", tc.input, tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestKeyByStoreAndIPForCheckout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	var key string
	r.POST("/stores/:slug/checkout", func(c *gin.Context) {
		key = KeyByStoreAndIP(c)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/stores/Loja-Demo/checkout", nil)
	req.RemoteAddr = "10.0.0.9:4321"
	req.Header.Set("X-Cart-Token", "qualquer")
	r.ServeHTTP(w, req)

	if key != "loja-demo|10.0.0.9" {
		t.Fatalf("key want loja-demo|10.0.0.9 got %s", key)
	}
}

func TestRateLimitRulePresets(t *testing.T) {
	login := loginRateLimitRule("vt", "merchant_login", config.LoginRateLimitConfig{WindowSeconds: 300, MaxAttempts: 5})
	if login.Prefix != "vt:rate:merchant_login" || login.MaxRequests != 5 || login.FailOpen {
		t.Fatalf("unexpected login rule: %+v", login)
	}
	checkout := checkoutRateLimitRule("vt", config.CheckoutLimitConfig{WindowSeconds: 60, MaxRequests: 10})
	if checkout.Prefix != "vt:rate:checkout" || !checkout.FailOpen || checkout.MessageKey != "error.checkout_too_many" {
		t.Fatalf("unexpected checkout rule: %+v", checkout)
	}
	if checkoutRateLimitRule("vt", config.CheckoutLimitConfig{}).enabled() {
		t.Fatalf("zero window should disable checkout limit")
	}

	if got := checkout.retryAfter(12); got != 12 {
		t.Fatalf("retry after want 12 got %d", got)
	}
	if got := checkout.retryAfter(-1); got != 60 {
		t.Fatalf("missing ttl should fall back to window, got %d", got)
	}
	if got := (RateLimitRule{}).retryAfter(0); got != 1 {
		t.Fatalf("retry after floor want 1 got %d", got)
	}
	if got := checkout.remaining(12); got != 0 {
		t.Fatalf("remaining should not go negative, got %d", got)
	}
}

func TestRateLimitMiddlewareRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 无人监听的端口，脚本执行立即失败
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()

	cases := []struct {
		name     string
		failOpen bool
		want     string
	}{
		{name: "checkout fails open", failOpen: true, want: `"ok":true`},
		{name: "login fails closed", failOpen: false, want: `"status_code":500`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			rule := RateLimitRule{Prefix: "vt:rate:test", WindowSeconds: 60, MaxRequests: 1, FailOpen: tc.failOpen}
			r.POST("/stores/:slug/checkout", RateLimitMiddleware(client, rule, KeyByStoreAndIP), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stores/loja/checkout", nil))
			if !strings.Contains(w.Body.String(), tc.want) {
				t.Fatalf("body want %s got %s", tc.want, w.Body.String())
			}
		})
	}
}
