package scorer

import (
	"context"

	"github.com/cinerank/cinerank/core"
)

// Content 是内容相似打分源（类型 Jaccard）。
//
// 核心思想："用户喜欢具有某些类型的电影，推荐具有相似类型的其他电影"。
//
// 用户侧类型集合的取值顺序：
//  1. 正向评分历史（分数 >= PositiveThreshold）里电影类型的并集
//  2. 历史为空时回退到画像声明的偏好类型
//  3. 两者都为空时返回空列表——调用方必须有兜底策略，
//     这也是冷启动分层从不选择本源的原因
type Content struct {
	Movies  core.MovieStore
	Ratings core.RatingStore

	// PositiveThreshold 正向评分阈值（评分尺度 0.5-5.0），默认 4.0
	PositiveThreshold float64

	// PoolSize 候选池大小，默认 200
	PoolSize int
}

func (s *Content) Name() string { return core.SourceContent }

func (s *Content) Score(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.ScoredCandidate, error) {
	genres, err := s.userGenres(ctx, rctx)
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return nil, nil
	}

	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = 200
	}
	pool, err := s.Movies.FindCandidates(ctx, core.CandidateFilter{Limit: poolSize})
	if err != nil {
		return nil, err
	}

	out := make([]*core.ScoredCandidate, 0, len(pool))
	for _, m := range pool {
		if rctx.IsExcluded(m.ID) {
			continue
		}
		score := core.JaccardGenres(m.Genres, genres)
		if score <= 0 {
			continue
		}
		out = append(out, core.NewScoredCandidate(m.ID, score, s.Name()))
	}

	sortCandidates(out)
	return truncate(out, rctx.Limit), nil
}

// userGenres 取用户侧类型集合：正向历史并集 → 画像偏好 → 空。
func (s *Content) userGenres(ctx context.Context, rctx *core.RecommendContext) ([]string, error) {
	threshold := s.PositiveThreshold
	if threshold <= 0 {
		threshold = 4.0
	}

	ratings, err := s.Ratings.FindByUser(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	positive := make([]int64, 0, len(ratings))
	for _, r := range ratings {
		if r.Score >= threshold {
			positive = append(positive, r.MovieID)
		}
	}

	if len(positive) > 0 {
		movies, err := s.Movies.FindByIDs(ctx, positive)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{})
		genres := make([]string, 0, 8)
		for _, m := range movies {
			for _, g := range m.Genres {
				if _, ok := seen[g]; ok {
					continue
				}
				seen[g] = struct{}{}
				genres = append(genres, g)
			}
		}
		if len(genres) > 0 {
			return genres, nil
		}
	}

	if rctx.User != nil && len(rctx.User.FavoriteGenres) > 0 {
		return rctx.User.FavoriteGenres, nil
	}
	return nil, nil
}

var _ Source = (*Content)(nil)
