package filter

import (
	"context"
	"encoding/json"

	"github.com/cinerank/cinerank/core"
)

// BlacklistFilter 是全局黑名单过滤器，过滤下架/版权受限等不可推荐的电影。
// 黑名单以 JSON 数组形式存在 Store 的单个 key 下，读取失败时放行
// （黑名单不可用不应让整个请求失败）。
type BlacklistFilter struct {
	Store core.Store

	// Key 黑名单存储 key，默认 "blacklist:movies"
	Key string

	// IDs 内存兜底列表（测试/原型用）
	IDs []int64
}

func (f *BlacklistFilter) Name() string { return "filter.blacklist" }

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	candidate *core.ScoredCandidate,
	_ *core.Movie,
) (bool, error) {
	for _, id := range f.blocked(ctx) {
		if id == candidate.MovieID {
			return true, nil
		}
	}
	return false, nil
}

func (f *BlacklistFilter) blocked(ctx context.Context) []int64 {
	if f.Store == nil {
		return f.IDs
	}
	key := f.Key
	if key == "" {
		key = "blacklist:movies"
	}
	data, err := f.Store.Get(ctx, key)
	if err != nil {
		return f.IDs
	}
	var ids []int64
	if json.Unmarshal(data, &ids) != nil {
		return f.IDs
	}
	return ids
}

var _ Filter = (*BlacklistFilter)(nil)
