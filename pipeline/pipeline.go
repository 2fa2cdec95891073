package pipeline

import (
	"context"

	"github.com/cinerank/cinerank/core"
)

// Pipeline 把混排后的处理逻辑拆成可组合的 Node 链（过滤 → 重排 → 截断）。
// Node 内部错误属于编程不变量，出现即原样上抛，不做静默恢复。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
