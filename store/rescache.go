package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cinerank/cinerank/core"
)

// CacheKey 生成结果缓存 key：recommendations:user:{userId}:n:{count}:strategy:{strategyName}
func CacheKey(userID int64, count int, strategyName string) string {
	return fmt.Sprintf("recommendations:user:%d:n:%d:strategy:%s", userID, count, strategyName)
}

// UserCachePattern 生成某用户全部结果缓存的通配模式。
func UserCachePattern(userID int64) string {
	return fmt.Sprintf("recommendations:user:%d:*", userID)
}

// ResultCache 把字节级 KeyValueStore 包装成结果缓存（core.ResultCache）。
// 结果以 JSON 存储；每次写入是按 key 的整体覆盖，不做增量，
// 两个并发请求各写一次也是幂等的。
type ResultCache struct {
	kv core.KeyValueStore
}

func NewResultCache(kv core.KeyValueStore) *ResultCache {
	return &ResultCache{kv: kv}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*core.Result, error) {
	data, err := c.kv.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrCacheMiss
		}
		return nil, err
	}

	var result core.Result
	if err := json.Unmarshal(data, &result); err != nil {
		// 坏数据当未命中处理，重新生成时覆盖
		return nil, core.ErrCacheMiss
	}
	return &result, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *core.Result, ttlSeconds int) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, key, data, ttlSeconds)
}

func (c *ResultCache) InvalidatePattern(ctx context.Context, pattern string) error {
	keys, err := c.kv.Keys(ctx, pattern)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := c.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

var _ core.ResultCache = (*ResultCache)(nil)
