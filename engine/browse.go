package engine

import (
	"context"
	"sort"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/scorer"
)

// Popular 返回全站热门榜单，不依赖用户画像，结果分数已归一化到 [0,1]。
// 匿名浏览页用，和冷启动策略共享同一个热门打分源。
func (e *Engine) Popular(ctx context.Context, limit int) ([]*core.ScoredCandidate, error) {
	if limit <= 0 {
		limit = DefaultCount
	}
	src := &scorer.Popularity{
		Movies:         e.deps.Movies,
		PoolSize:       e.cfg.PoolSize,
		MinRatingCount: e.cfg.MinRatingCount,
	}
	return src.Score(ctx, &core.RecommendContext{Limit: limit})
}

// Trending 返回最近 days 天内评分事件最密集的电影，
// 分数为事件数对榜首的归一化占比。
func (e *Engine) Trending(ctx context.Context, days, limit int) ([]*core.ScoredCandidate, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = DefaultCount
	}

	events, err := e.deps.Ratings.FindRecent(ctx, days, e.cfg.PoolSize*e.cfg.Overfetch)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int)
	for _, ev := range events {
		counts[ev.MovieID]++
	}
	if len(counts) == 0 {
		return nil, nil
	}

	type entry struct {
		movieID int64
		count   int
	}
	entries := make([]entry, 0, len(counts))
	maxCount := 0
	for id, n := range counts {
		entries = append(entries, entry{movieID: id, count: n})
		if n > maxCount {
			maxCount = n
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].movieID < entries[j].movieID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]*core.ScoredCandidate, 0, len(entries))
	for i, en := range entries {
		c := core.NewScoredCandidate(en.movieID, float64(en.count)/float64(maxCount), "trending")
		c.Rank = i + 1
		out = append(out, c)
	}
	return out, nil
}
