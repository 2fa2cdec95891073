package scorer

import (
	"context"
	"fmt"

	"github.com/cinerank/cinerank/core"
)

// Collaborative 是协同预测打分源，把打分委托给外部 Predictor。
//
// 本源只负责三件事：
//   - 取候选池并在提交前剔除已排除的电影（单次批量调用，限制重试放大）
//   - 透传 Predictor 输出（上游已归一化到 [0,1]）
//   - 把上游故障转换为 ErrPredictorUnavailable，交由编排层降级
type Collaborative struct {
	Movies    core.MovieStore
	Predictor core.Predictor

	// PoolSize 候选池大小，默认 200
	PoolSize int
}

func (s *Collaborative) Name() string { return core.SourceCollaborative }

func (s *Collaborative) Score(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.ScoredCandidate, error) {
	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = 200
	}
	pool, err := s.Movies.FindCandidates(ctx, core.CandidateFilter{Limit: poolSize})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(pool))
	for _, m := range pool {
		if rctx.IsExcluded(m.ID) {
			continue
		}
		ids = append(ids, m.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	scores, err := s.Predictor.Predict(ctx, rctx.UserID, ids)
	if err != nil {
		if core.IsPredictorUnavailable(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", core.ErrPredictorUnavailable, err)
	}

	out := make([]*core.ScoredCandidate, 0, len(scores))
	for _, id := range ids {
		score, ok := scores[id]
		if !ok {
			continue
		}
		out = append(out, core.NewScoredCandidate(id, score, s.Name()))
	}

	sortCandidates(out)
	return truncate(out, rctx.Limit), nil
}

var _ Source = (*Collaborative)(nil)
