// Package scorer 实现可互换的候选打分源（热门/内容/协同）。
package scorer

import (
	"context"
	"sort"

	"github.com/cinerank/cinerank/core"
)

// Source 表示一个可复用的打分源。
// 你可以把它理解为"可并发 fan-out 的策略单元"：每个源独立产出一路
// 归一化候选，由 blend 按策略权重合并。
//
// 契约：
//   - 输出按分数降序，同分按电影 ID 升序（确定性、可复现）
//   - 分数归一化到 [0,1]，Rank 从 1 开始
//   - rctx.Excluded 内的电影永不出现在输出里
type Source interface {
	Name() string
	Score(ctx context.Context, rctx *core.RecommendContext) ([]*core.ScoredCandidate, error)
}

// sortCandidates 按契约排序并回填名次：分数降序，同分按 ID 升序。
func sortCandidates(out []*core.ScoredCandidate) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MovieID < out[j].MovieID
	})
	for i, c := range out {
		c.Rank = i + 1
	}
}

// truncate 截断到 limit（limit <= 0 时不截断）。
func truncate(out []*core.ScoredCandidate, limit int) []*core.ScoredCandidate {
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}
