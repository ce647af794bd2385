package team

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"member-management/internal/core/cache"
)

// Cache 团队详情缓存。
// 数据 key 形如 <prefix>:team:<id>:v<n>，n 存在 <prefix>:team:<id>:ver；
// 失效只把 n 加一，删除提交前读到旧行的回源即使晚写，也落在旧版本 key 上不会再被读到
type Cache struct {
	c   cache.VersionedStore
	ttl time.Duration
	log *zap.Logger
}

func NewCache(c cache.VersionedStore, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{c: c, ttl: ttl, log: log}
}

func (tc *Cache) verKey(id int64) string {
	return tc.c.Key("team", strconv.FormatInt(id, 10), "ver")
}

func (tc *Cache) key(id, ver int64) string {
	return tc.c.Key("team", strconv.FormatInt(id, 10), "v"+strconv.FormatInt(ver, 10))
}

func (tc *Cache) GetOrLoad(ctx context.Context, id int64, load func(context.Context) (*DTO, error)) (*DTO, error) {
	ver, err := tc.c.Version(ctx, tc.verKey(id))
	if err != nil {
		// 版本未知时不能信任任何数据 key
		return load(ctx)
	}
	return cache.GetOrLoadJSON(tc.c, ctx, tc.key(id, ver), tc.ttl, load)
}

// Invalidate 版本 key 要比数据 key 活得久，否则过期归零后可能读到旧版本数据
func (tc *Cache) Invalidate(ctx context.Context, id int64) {
	if err := tc.c.Bump(ctx, tc.verKey(id), tc.ttl+time.Hour); err != nil {
		tc.log.Error("team cache invalidate failed, stale reads possible until ttl",
			zap.Int64("team_id", id), zap.Duration("ttl", tc.ttl), zap.Error(err))
	}
}
