package filter

import (
	"context"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/pipeline"
	"github.com/cinerank/cinerank/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该候选就会被移除。
// 电影快照按整批候选一次性读取，避免每个过滤器各自回源。
type FilterNode struct {
	Filters []Filter

	// Movies 用于批量读取候选对应的电影快照；为 nil 时过滤器收到 nil movie
	Movies core.MovieStore
}

func (n *FilterNode) Name() string        { return "filter.node" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	var movies map[int64]*core.Movie
	if n.Movies != nil {
		ids := make([]int64, 0, len(candidates))
		for _, c := range candidates {
			ids = append(ids, c.MovieID)
		}
		var err error
		movies, err = n.Movies.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*core.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, c, movies[c.MovieID])
			if err != nil {
				// 过滤器错误时记录但不中断流程
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			c.PutLabel("filtered", utils.Label{Value: "true", Source: filterReason})
			continue
		}
		out = append(out, c)
	}

	for i, c := range out {
		c.Rank = i + 1
	}
	return out, nil
}

var _ pipeline.Node = (*FilterNode)(nil)
