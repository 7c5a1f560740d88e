package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mojocn/base64Captcha"
	"github.com/redis/go-redis/v9"
)

const captchaStoreTimeout = 2 * time.Second

// RedisCaptchaStore 基于 Redis 的图片验证码存储，多实例部署时共享答案
type RedisCaptchaStore struct {
	ttl time.Duration
}

var _ base64Captcha.Store = (*RedisCaptchaStore)(nil)

// NewCaptchaStore Redis 可用时返回 Redis 存储，否则使用进程内存储
func NewCaptchaStore(ttl time.Duration) base64Captcha.Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if Enabled() {
		return &RedisCaptchaStore{ttl: ttl}
	}
	return base64Captcha.NewMemoryStore(base64Captcha.GCLimitNumber, ttl)
}

func captchaKey(id string) string {
	return "captcha:" + strings.TrimSpace(id)
}

// Set 写入验证码答案
func (s *RedisCaptchaStore) Set(id string, value string) error {
	if !Enabled() {
		return errors.New("redis disabled")
	}
	ctx, cancel := context.WithTimeout(context.Background(), captchaStoreTimeout)
	defer cancel()
	return redisClient.Set(ctx, buildKey(captchaKey(id)), value, s.ttl).Err()
}

// Get 读取验证码答案，clear 为 true 时读取后删除
func (s *RedisCaptchaStore) Get(id string, clear bool) string {
	if !Enabled() {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), captchaStoreTimeout)
	defer cancel()
	key := buildKey(captchaKey(id))
	var (
		val string
		err error
	)
	if clear {
		val, err = redisClient.GetDel(ctx, key).Result()
	} else {
		val, err = redisClient.Get(ctx, key).Result()
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return ""
	}
	return val
}

// Verify 校验验证码（大小写不敏感）
func (s *RedisCaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	if stored == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(answer))
}
