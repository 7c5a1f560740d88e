package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vitrine-next/internal/config"
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
	// FailOpen Redis 不可用时放行；登录类规则保持拒绝
	FailOpen bool
}

// rateLimitHit 单次计数结果
type rateLimitHit struct {
	count int64
	ttl   int64
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// loginRateLimitRule 商户/平台登录与开店注册共用的窗口
func loginRateLimitRule(redisPrefix, scope string, cfg config.LoginRateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:%s", redisPrefix, scope),
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
}

// checkoutRateLimitRule 前台 WhatsApp 下单限流，限流器故障时不阻断成交
func checkoutRateLimitRule(redisPrefix string, cfg config.CheckoutLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxRequests,
		MessageKey:    "error.checkout_too_many",
		FailOpen:      true,
	}
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) buildKey(c *gin.Context, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if r.Prefix == "" {
		return key
	}
	return r.Prefix + ":" + key
}

// retryAfter 计算需等待的秒数，TTL 丢失时退回整个窗口
func (r RateLimitRule) retryAfter(ttl int64) int {
	wait := int(ttl)
	if wait < 1 {
		wait = r.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return wait
}

func (r RateLimitRule) message(wait int) string {
	key := strings.TrimSpace(r.MessageKey)
	if key == "" {
		key = "error.rate_limited"
	}
	return handlershared.Sprintf(key, wait)
}

func (r RateLimitRule) remaining(count int64) int {
	left := int64(r.MaxRequests) - count
	if left < 0 {
		return 0
	}
	return int(left)
}

// hitRateLimit 执行计数脚本并解析结果
func hitRateLimit(ctx context.Context, client *redis.Client, key string, windowSeconds int) (rateLimitHit, error) {
	result, err := rateLimitScript.Run(ctx, client, []string{key}, windowSeconds).Result()
	if err != nil {
		return rateLimitHit{}, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return rateLimitHit{}, fmt.Errorf("unexpected rate limit reply: %v", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return rateLimitHit{}, fmt.Errorf("unexpected rate limit counter: %v", values[0])
	}
	ttl, _ := toInt64(values[1])
	return rateLimitHit{count: count, ttl: ttl}, nil
}

// RateLimitMiddleware Redis 固定窗口限流中间件
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		key := rule.buildKey(c, keyFunc)
		hit, err := hitRateLimit(c.Request.Context(), client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_failed", "key", key, "fail_open", rule.FailOpen, "error", err)
			if rule.FailOpen {
				c.Next()
				return
			}
			respondRateLimitUnavailable(c)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rule.remaining(hit.count)))
		if hit.count > int64(rule.MaxRequests) {
			wait := rule.retryAfter(hit.ttl)
			c.Header("Retry-After", strconv.Itoa(wait))
			response.Error(c, response.CodeTooManyRequests, rule.message(wait))
			c.Abort()
			return
		}

		c.Next()
	}
}

func respondRateLimitUnavailable(c *gin.Context) {
	response.Error(c, response.CodeInternal, handlershared.T("error.rate_limit_unavailable"))
	c.Abort()
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByStoreAndIP 使用店铺 slug + IP 作为限流 key；购物车 token 可随意更换，不参与计数
func KeyByStoreAndIP(c *gin.Context) string {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		return c.ClientIP()
	}
	return slug + "|" + c.ClientIP()
}

// KeyByIPAndJSONField 使用 JSON 字段 + IP 作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(readJSONField(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// readJSONField 读取请求体中的字符串字段，并回填请求体供后续绑定
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload[field], &text); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
