package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/strategy"
)

// Explanation 回答"为什么会把这部电影推荐给这个用户"。
// 纯诊断接口，不产出推荐，也不读写缓存。
type Explanation struct {
	UserID     int64  `json:"user_id"`
	MovieID    int64  `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	Tier       string `json:"tier"`
	Strategy   string `json:"strategy"`

	// PrimaryReason 主要推荐理由（与 Generate 产出的理由同一套措辞）
	PrimaryReason string `json:"primary_reason"`

	// CommonGenres 用户偏好与电影类型的交集
	CommonGenres []string `json:"common_genres,omitempty"`

	// GenreMatch 用户偏好与电影类型的 Jaccard 相似度
	GenreMatch float64 `json:"genre_match"`

	// Popularity 电影的评分人数与均分
	RatingCount int     `json:"rating_count"`
	AvgRating   float64 `json:"avg_rating"`
}

// Explain 解释某部电影对某个用户的推荐依据。
// 用户或电影不存在时返回对应的 NotFound 错误。
func (e *Engine) Explain(ctx context.Context, userID, movieID int64) (*Explanation, error) {
	user, err := e.deps.Profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	tier, err := user.Tier()
	if err != nil {
		return nil, err
	}
	strat, err := strategy.Select(tier)
	if err != nil {
		return nil, err
	}

	movies, err := e.deps.Movies.FindByIDs(ctx, []int64{movieID})
	if err != nil {
		return nil, err
	}
	movie, ok := movies[movieID]
	if !ok {
		return nil, core.ErrMovieNotFound
	}

	common := commonGenres(movie.Genres, user.FavoriteGenres)
	out := &Explanation{
		UserID:       userID,
		MovieID:      movieID,
		MovieTitle:   movie.Title,
		Tier:         string(tier),
		Strategy:     strat.Name,
		CommonGenres: common,
		GenreMatch:   core.JaccardGenres(movie.Genres, user.FavoriteGenres),
		RatingCount:  movie.RatingCount,
		AvgRating:    movie.AvgRating,
	}

	// 主理由按策略权重最高的源来措辞
	primary := core.SourcePopularity
	best := 0.0
	for src, w := range strat.Weights {
		if w > best {
			primary, best = src, w
		}
	}
	out.PrimaryReason = explanation(movie, user.FavoriteGenres, primary)

	return out, nil
}

// explanation 为单条推荐生成一句话理由。
// source 可能是混排后的组合标签（如 "content+popularity"），
// 措辞优先级：类型匹配 > 协同信号 > 热门口碑。
func explanation(movie *core.Movie, favoriteGenres []string, source string) string {
	common := commonGenres(movie.Genres, favoriteGenres)
	if strings.Contains(source, core.SourceContent) && len(common) > 0 {
		return fmt.Sprintf("Matches your taste in %s", strings.Join(common, ", "))
	}
	if strings.Contains(source, core.SourceCollaborative) {
		return "Viewers with similar taste rated this highly"
	}
	if movie.RatingCount > 0 {
		return fmt.Sprintf("Rated %.1f by %d viewers", movie.AvgRating, movie.RatingCount)
	}
	return "Popular right now"
}

// commonGenres 求两组类型的交集（大小写不敏感），按字典序返回。
func commonGenres(a, b []string) []string {
	set := make(map[string]string, len(b))
	for _, g := range b {
		set[strings.ToLower(g)] = g
	}
	var out []string
	for _, g := range a {
		if _, ok := set[strings.ToLower(g)]; ok {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}
