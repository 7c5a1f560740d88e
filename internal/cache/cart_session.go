package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vitrine-next/internal/cart"
)

const defaultCartSessionTTL = 72 * time.Hour

// CartSessionStore 购物车会话存储
// 引擎本身不负责持久化，由服务层在每次变更后保存快照。
type CartSessionStore interface {
	Load(ctx context.Context, storeID uint, token string) (*cart.State, bool, error)
	Save(ctx context.Context, storeID uint, token string, state cart.State) error
	Delete(ctx context.Context, storeID uint, token string) error
}

// CartSessionKey 购物车会话缓存键
func CartSessionKey(storeID uint, token string) string {
	return fmt.Sprintf("cart:%d:%s", storeID, strings.TrimSpace(token))
}

// NewCartSessionStore Redis 可用时使用 Redis，否则回退到进程内存储
func NewCartSessionStore(ttl time.Duration) CartSessionStore {
	if Enabled() {
		return NewRedisCartSessionStore(ttl)
	}
	return NewMemoryCartSessionStore(ttl)
}

// RedisCartSessionStore 基于 Redis 的购物车会话存储
type RedisCartSessionStore struct {
	ttl time.Duration
}

// NewRedisCartSessionStore 创建 Redis 购物车会话存储
func NewRedisCartSessionStore(ttl time.Duration) *RedisCartSessionStore {
	if ttl <= 0 {
		ttl = defaultCartSessionTTL
	}
	return &RedisCartSessionStore{ttl: ttl}
}

// Load 读取购物车快照
func (s *RedisCartSessionStore) Load(ctx context.Context, storeID uint, token string) (*cart.State, bool, error) {
	var state cart.State
	hit, err := GetJSON(ctx, CartSessionKey(storeID, token), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// Save 写入购物车快照并刷新过期时间
func (s *RedisCartSessionStore) Save(ctx context.Context, storeID uint, token string, state cart.State) error {
	return SetJSON(ctx, CartSessionKey(storeID, token), state, s.ttl)
}

// Delete 删除购物车快照
func (s *RedisCartSessionStore) Delete(ctx context.Context, storeID uint, token string) error {
	return Del(ctx, CartSessionKey(storeID, token))
}

type memoryCartEntry struct {
	state     cart.State
	expiresAt time.Time
}

// MemoryCartSessionStore 进程内购物车会话存储（单实例部署或测试使用）
type MemoryCartSessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryCartEntry
}

// NewMemoryCartSessionStore 创建进程内购物车会话存储
func NewMemoryCartSessionStore(ttl time.Duration) *MemoryCartSessionStore {
	if ttl <= 0 {
		ttl = defaultCartSessionTTL
	}
	return &MemoryCartSessionStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryCartEntry),
	}
}

// Load 读取购物车快照，过期条目视为不存在
func (s *MemoryCartSessionStore) Load(_ context.Context, storeID uint, token string) (*cart.State, bool, error) {
	key := CartSessionKey(storeID, token)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	state := cloneState(entry.state)
	return &state, true, nil
}

// Save 写入购物车快照
func (s *MemoryCartSessionStore) Save(_ context.Context, storeID uint, token string, state cart.State) error {
	key := CartSessionKey(storeID, token)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryCartEntry{state: cloneState(state), expiresAt: s.now().Add(s.ttl)}
	s.sweepLocked()
	return nil
}

// Delete 删除购物车快照
func (s *MemoryCartSessionStore) Delete(_ context.Context, storeID uint, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, CartSessionKey(storeID, token))
	return nil
}

func (s *MemoryCartSessionStore) sweepLocked() {
	now := s.now()
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func cloneState(state cart.State) cart.State {
	cloned := cart.State{
		ShippingCost: state.ShippingCost,
	}
	if len(state.Items) > 0 {
		cloned.Items = make([]cart.LineItem, len(state.Items))
		copy(cloned.Items, state.Items)
	}
	if state.AppliedCoupon != nil {
		coupon := *state.AppliedCoupon
		cloned.AppliedCoupon = &coupon
	}
	return cloned
}
