package scorer

import (
	"context"

	"github.com/cinerank/cinerank/core"
)

// Popularity 是热门度打分源。
//
// 原始分 = log10(评分数+1) * 平均分，在本次取到的候选池内除以最大值
// 归一化到 (0,1]。候选池从 MovieStore 取评分数 TopK，并带最低评分数门槛；
// 没有电影过门槛时返回空列表（fail closed），由上层策略兜底。
type Popularity struct {
	Movies core.MovieStore

	// PoolSize 候选池大小（评分数 TopK），默认 200
	PoolSize int

	// MinRatingCount 最低评分数门槛，默认 10
	MinRatingCount int
}

func (s *Popularity) Name() string { return core.SourcePopularity }

func (s *Popularity) Score(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.ScoredCandidate, error) {
	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = 200
	}
	floor := s.MinRatingCount
	if floor <= 0 {
		floor = 10
	}

	pool, err := s.Movies.FindCandidates(ctx, core.CandidateFilter{
		MinRatingCount: floor,
		Limit:          poolSize,
	})
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	var maxRaw float64
	raws := make(map[int64]float64, len(pool))
	for _, m := range pool {
		raw := m.PopularityScore()
		raws[m.ID] = raw
		if raw > maxRaw {
			maxRaw = raw
		}
	}
	if maxRaw == 0 {
		return nil, nil
	}

	out := make([]*core.ScoredCandidate, 0, len(pool))
	for _, m := range pool {
		if rctx.IsExcluded(m.ID) {
			continue
		}
		out = append(out, core.NewScoredCandidate(m.ID, raws[m.ID]/maxRaw, s.Name()))
	}

	sortCandidates(out)
	return truncate(out, rctx.Limit), nil
}

var _ Source = (*Popularity)(nil)
