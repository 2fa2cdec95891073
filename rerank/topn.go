package rerank

import (
	"context"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在混排/重排后截取前 N 个候选。
//
// 使用场景：
//   - 混排产出 2x 超量候选，重排前后按请求数截断
//   - 配合多样性重排使用
type TopNNode struct {
	// N 要保留的候选数量；N <= 0 时沿用 rctx.Limit
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	limit := n.N
	if limit <= 0 {
		limit = rctx.Limit
	}
	if limit <= 0 || len(candidates) <= limit {
		return candidates, nil
	}
	out := candidates[:limit]
	for i, c := range out {
		c.Rank = i + 1
	}
	return out, nil
}

var _ pipeline.Node = (*TopNNode)(nil)
