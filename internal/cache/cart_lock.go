package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cartLockTTL       = 10 * time.Second
	cartLockWait      = 3 * time.Second
	cartLockRetryStep = 25 * time.Millisecond
)

// ErrCartLocked 同一购物车正在被其他请求修改
var ErrCartLocked = errors.New("cart session locked")

// CartLocker 购物车会话互斥，保证 读取 -> 修改 -> 保存 串行执行
type CartLocker interface {
	Lock(ctx context.Context, storeID uint, token string) (unlock func(), err error)
}

// NewCartLocker Redis 可用时使用分布式锁，否则使用进程内锁
func NewCartLocker() CartLocker {
	if Enabled() {
		return &RedisCartLocker{ttl: cartLockTTL, wait: cartLockWait}
	}
	return NewMemoryCartLocker()
}

func cartLockKey(storeID uint, token string) string {
	return fmt.Sprintf("cart_lock:%d:%s", storeID, strings.TrimSpace(token))
}

// 仅删除自己持有的锁
var cartUnlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCartLocker 基于 SET NX PX 的购物车锁
type RedisCartLocker struct {
	ttl  time.Duration
	wait time.Duration
}

// Lock 获取锁，等待超时返回 ErrCartLocked
func (l *RedisCartLocker) Lock(ctx context.Context, storeID uint, token string) (func(), error) {
	client := Client()
	if client == nil {
		return func() {}, nil
	}
	key := buildKey(cartLockKey(storeID, token))
	owner := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := client.SetNX(ctx, key, owner, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = cartUnlockScript.Run(releaseCtx, client, []string{key}, owner).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrCartLocked
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cartLockRetryStep):
		}
	}
}

type memoryLockEntry struct {
	ch   chan struct{}
	refs int
}

// MemoryCartLocker 进程内按会话加锁
type MemoryCartLocker struct {
	mu    sync.Mutex
	wait  time.Duration
	locks map[string]*memoryLockEntry
}

// NewMemoryCartLocker 创建进程内购物车锁
func NewMemoryCartLocker() *MemoryCartLocker {
	return &MemoryCartLocker{wait: cartLockWait, locks: make(map[string]*memoryLockEntry)}
}

// Lock 获取锁，等待超时返回 ErrCartLocked
func (l *MemoryCartLocker) Lock(ctx context.Context, storeID uint, token string) (func(), error) {
	key := cartLockKey(storeID, token)
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &memoryLockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case entry.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-entry.ch
				l.release(key, entry)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, entry)
		return nil, ctx.Err()
	case <-timer.C:
		l.release(key, entry)
		return nil, ErrCartLocked
	}
}

func (l *MemoryCartLocker) release(key string, entry *memoryLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}
