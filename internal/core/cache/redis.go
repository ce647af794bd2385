package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Store 字节级读穿缓存
type Store interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
}

// VersionedStore 带版本号失效的缓存，*Cache 实现
type VersionedStore interface {
	Store
	Key(parts ...string) string
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string, ttl time.Duration) error
}

// Cache redis 读穿缓存；redis 不可用时退化为直接回源
type Cache struct {
	RDB    *redis.Client
	prefix string
	sf     singleflight.Group
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key 前缀，多环境共用一个 redis 时区分
}

func New(o Options) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	}), o.Prefix)
}

func NewWithClient(rdb *redis.Client, prefix string) *Cache {
	return &Cache{RDB: rdb, prefix: prefix}
}

func (c *Cache) Key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		if k != "" {
			k += ":"
		}
		k += p
	}
	return k
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Version 读版本号；key 不存在为 0。redis 出错时返回 error，调用方应绕过缓存
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	n, err := c.RDB.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Bump 版本号加一并续期；旧版本的数据 key 不再被读到，等各自 TTL 过期
func (c *Cache) Bump(ctx context.Context, key string, ttl time.Duration) error {
	pipe := c.RDB.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}
