// Package rerank 实现混排结果上的多样性重排与截断。
package rerank

import (
	"context"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/pipeline"
	"github.com/cinerank/cinerank/pkg/utils"
)

// DefaultLambda 是 MMR 的默认相关性权重：70% 相关性、30% 新颖性。
const DefaultLambda = 0.7

// Rerank 对候选列表做 MMR（Maximal Marginal Relevance）贪心重排。
//
// 算法：
//  1. 首选当前相关性最高的候选
//  2. 此后每轮对剩余候选 c 计算
//     mmr(c) = lambda*relevance(c) - (1-lambda)*max_{s∈selected} sim(c,s)
//     其中 sim 是类型集合的 Jaccard 相似度（任一侧类型为空时为 0）
//  3. 取 mmr 最大者入选；同分先比原始相关性（高者优先），再按电影 ID 升序
//  4. 至 limit 个或池耗尽为止，名次按入选顺序重排为 1..N
//
// relevance 取候选的混排分，输入应已在 [0,1]；lambda=1 退化为纯相关性排序。
// 确定性贪心：同样输入必然产出同样顺序。
//
// 动机：重度用户的纯相关性排序容易集中在极窄的类型集合上（filter bubble），
// 用与已选集合的最大相似度做惩罚可以打散它。
func Rerank(
	candidates []*core.ScoredCandidate,
	movies map[int64]*core.Movie,
	lambda float64,
	limit int,
) []*core.ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}

	// 输入分数超出 [0,1] 时除以最大值兜底
	var maxScore float64
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	norm := 1.0
	if maxScore > 1.0 {
		norm = maxScore
	}
	relevance := func(c *core.ScoredCandidate) float64 { return c.Score / norm }

	genresOf := func(id int64) []string {
		if m, ok := movies[id]; ok {
			return m.Genres
		}
		return nil
	}

	remaining := make([]*core.ScoredCandidate, len(candidates))
	copy(remaining, candidates)

	// 种子：相关性最高者（同分按 ID 升序）
	seed := 0
	for i, c := range remaining {
		best := remaining[seed]
		if c.Score > best.Score || (c.Score == best.Score && c.MovieID < best.MovieID) {
			seed = i
		}
	}
	selected := []*core.ScoredCandidate{remaining[seed]}
	remaining = append(remaining[:seed], remaining[seed+1:]...)

	for len(selected) < limit && len(remaining) > 0 {
		bestIdx := -1
		var bestMMR, bestRel float64

		for i, c := range remaining {
			maxSim := 0.0
			cg := genresOf(c.MovieID)
			for _, s := range selected {
				sim := core.JaccardGenres(cg, genresOf(s.MovieID))
				if sim > maxSim {
					maxSim = sim
				}
			}

			rel := relevance(c)
			mmr := lambda*rel - (1-lambda)*maxSim

			better := bestIdx < 0 || mmr > bestMMR
			if !better && mmr == bestMMR {
				if rel > bestRel {
					better = true
				} else if rel == bestRel && c.MovieID < remaining[bestIdx].MovieID {
					better = true
				}
			}
			if better {
				bestIdx, bestMMR, bestRel = i, mmr, rel
			}
		}

		picked := remaining[bestIdx]
		picked.PutLabel("rerank", utils.Label{Value: "mmr", Source: "rerank"})
		selected = append(selected, picked)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	for i, c := range selected {
		c.Rank = i + 1
	}
	return selected
}

// MMRNode 把 MMR 重排接入后处理链，候选对应的电影快照从 MovieStore 批量读取。
type MMRNode struct {
	Movies core.MovieStore

	// Lambda 相关性权重，默认 DefaultLambda
	Lambda float64

	// Limit 重排后保留的数量；0 表示沿用 rctx.Limit
	Limit int
}

func (n *MMRNode) Name() string        { return "rerank.mmr" }
func (n *MMRNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *MMRNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.MovieID)
	}
	movies, err := n.Movies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lambda := n.Lambda
	if lambda <= 0 {
		lambda = DefaultLambda
	}
	limit := n.Limit
	if limit <= 0 {
		limit = rctx.Limit
	}

	return Rerank(candidates, movies, lambda, limit), nil
}

var _ pipeline.Node = (*MMRNode)(nil)
