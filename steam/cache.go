package steam

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/metrics"
	"github.com/rushteam/playful/pkg/logging"
)

const (
	// DefaultCachePrefix 是已拥有物品缓存的 key 前缀。
	DefaultCachePrefix = "owned:"

	// DefaultFetchTimeout 是共享回源的超时上限
	DefaultFetchTimeout = 30 * time.Second
)

// CachedProvider 在 Provider 外包一层 Store 缓存，同一用户的并发请求只回源一次。
// 缓存读写失败只记录日志，不影响结果。
type CachedProvider struct {
	Provider core.OwnedItemsProvider
	Store    core.Store
	TTL      time.Duration
	Prefix   string

	// FetchTimeout 限制共享回源的时长，回源不受任何单个调用方取消的影响
	FetchTimeout time.Duration

	group singleflight.Group
}

func NewCachedProvider(p core.OwnedItemsProvider, s core.Store, ttl time.Duration) *CachedProvider {
	return &CachedProvider{Provider: p, Store: s, TTL: ttl, Prefix: DefaultCachePrefix}
}

func (c *CachedProvider) key(userID string) string {
	return c.Prefix + userID
}

func (c *CachedProvider) OwnedItems(ctx context.Context, userID string) ([]core.UsageRecord, error) {
	if c.Store == nil || c.TTL <= 0 {
		return c.Provider.OwnedItems(ctx, userID)
	}

	key := c.key(userID)
	if data, err := c.Store.Get(ctx, key); err == nil {
		var recs []core.UsageRecord
		if err := json.Unmarshal(data, &recs); err == nil {
			metrics.ProviderCacheHits.Inc()
			return recs, nil
		}
		logging.Ctx(ctx).Warn().Str("key", key).Msg("corrupt owned items cache entry")
	} else if !core.IsStoreNotFound(err) {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("owned items cache read failed")
	}
	metrics.ProviderCacheMisses.Inc()

	// 回源使用独立的 context：单个调用方取消只让它自己返回
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()

		recs, err := c.Provider.OwnedItems(fetchCtx, userID)
		if err != nil {
			return nil, err
		}
		ttl := int(c.TTL / time.Second)
		if ttl < 1 {
			ttl = 1
		}
		data, err := json.Marshal(recs)
		if err == nil {
			err = c.Store.Set(fetchCtx, key, data, ttl)
		}
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("owned items cache write failed")
		}
		return recs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]core.UsageRecord), nil
	}
}

func (c *CachedProvider) fetchTimeout() time.Duration {
	if c.FetchTimeout > 0 {
		return c.FetchTimeout
	}
	return DefaultFetchTimeout
}

var _ core.OwnedItemsProvider = (*CachedProvider)(nil)
