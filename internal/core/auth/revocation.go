package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker 登出后令牌作废（按 jti）
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const minRevokeTTL = time.Minute

type RedisRevoker struct {
	RDB *redis.Client
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker { return &RedisRevoker{RDB: rdb} }

func revokeKey(jti string) string { return fmt.Sprintf("portal:revoked:jti:%s", jti) }

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl < minRevokeTTL {
		ttl = minRevokeTTL
	}
	return r.RDB.Set(ctx, revokeKey(jti), "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.RDB.Exists(ctx, revokeKey(jti)).Result()
	return n > 0, err
}

// MemoryRevoker 单进程部署（未配置 redis）时使用
type MemoryRevoker struct {
	mu  sync.Mutex
	m   map[string]time.Time
	now func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{m: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	// 顺带清理过期条目
	for k, exp := range r.m {
		if now.After(exp) {
			delete(r.m, k)
		}
	}
	if until.Before(now.Add(minRevokeTTL)) {
		until = now.Add(minRevokeTTL)
	}
	r.m[jti] = until
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.m[jti]
	if !ok {
		return false, nil
	}
	if r.now().After(exp) {
		delete(r.m, jti)
		return false, nil
	}
	return true, nil
}
