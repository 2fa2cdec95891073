package engine

import (
	"context"

	"github.com/cinerank/cinerank/store"
)

// OnRatingIngested 在用户产生新评分后失效其全部缓存结果。
// 评分会改变分层与排除集，旧缓存继续命中会把刚评过的电影再推一遍。
// 未配置缓存时是空操作。
func (e *Engine) OnRatingIngested(ctx context.Context, userID int64) error {
	if e.deps.Cache == nil {
		return nil
	}
	return e.deps.Cache.InvalidatePattern(ctx, store.UserCachePattern(userID))
}
