package scorer

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/cinerank/cinerank/core"
)

// fakeMovieStore 按评分数降序返回候选，模拟存储层的排序契约。
type fakeMovieStore struct {
	movies []*core.Movie
	err    error
}

func (s *fakeMovieStore) FindCandidates(_ context.Context, f core.CandidateFilter) ([]*core.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if f.MinRatingCount > 0 && m.RatingCount < f.MinRatingCount {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RatingCount > out[j].RatingCount })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *fakeMovieStore) FindByIDs(_ context.Context, ids []int64) (map[int64]*core.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[int64]*core.Movie)
	for _, m := range s.movies {
		for _, id := range ids {
			if m.ID == id {
				out[id] = m
			}
		}
	}
	return out, nil
}

type fakeRatingStore struct {
	ratings map[int64][]core.Rating
}

func (s *fakeRatingStore) FindByUser(_ context.Context, userID int64) ([]core.Rating, error) {
	return s.ratings[userID], nil
}

func (s *fakeRatingStore) FindRecent(_ context.Context, days, limit int) ([]core.Rating, error) {
	return nil, nil
}

type fakePredictor struct {
	scores  map[int64]float64
	err     error
	lastIDs []int64
	calls   int
}

func (p *fakePredictor) Predict(_ context.Context, userID int64, movieIDs []int64) (map[int64]float64, error) {
	p.calls++
	p.lastIDs = movieIDs
	if p.err != nil {
		return nil, p.err
	}
	return p.scores, nil
}

func testMovie(id int64, genres []string, count int, avg float64) *core.Movie {
	m := core.NewMovie(id, "", genres)
	m.RatingCount = count
	m.AvgRating = avg
	return m
}

func TestPopularityNormalization(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{
		testMovie(1, []string{"Action"}, 9999, 4.5),
		testMovie(2, []string{"Drama"}, 500, 4.0),
		testMovie(3, []string{"Comedy"}, 50, 3.0),
	}}
	src := &Popularity{Movies: movies}

	got, err := src.Score(context.Background(), &core.RecommendContext{Limit: 10})
	if err != nil {
		t.Fatalf("Score 报错: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("候选数 = %d, 期望 3", len(got))
	}
	if got[0].MovieID != 1 || got[0].Score != 1.0 {
		t.Errorf("榜首应为电影 1 且分数归一化到 1.0, 实际 movie=%d score=%v", got[0].MovieID, got[0].Score)
	}
	for _, c := range got {
		if c.Score <= 0 || c.Score > 1.0 {
			t.Errorf("电影 %d 分数 %v 超出 (0,1]", c.MovieID, c.Score)
		}
	}
}

func TestPopularityFloor(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{
		testMovie(1, []string{"Action"}, 100, 4.5),
		testMovie(2, []string{"Drama"}, 3, 5.0), // 低于默认门槛 10
	}}
	src := &Popularity{Movies: movies}

	got, err := src.Score(context.Background(), &core.RecommendContext{Limit: 10})
	if err != nil {
		t.Fatalf("Score 报错: %v", err)
	}
	if len(got) != 1 || got[0].MovieID != 1 {
		t.Fatalf("样本过少的电影应被门槛挡掉, 实际 %d 个候选", len(got))
	}
}

func TestPopularityExcluded(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{
		testMovie(1, []string{"Action"}, 100, 4.5),
		testMovie(2, []string{"Drama"}, 90, 4.0),
	}}
	src := &Popularity{Movies: movies}
	rctx := &core.RecommendContext{Limit: 10, Excluded: map[int64]struct{}{1: {}}}

	got, err := src.Score(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Score 报错: %v", err)
	}
	for _, c := range got {
		if c.MovieID == 1 {
			t.Fatalf("已排除的电影不应出现在结果里")
		}
	}
}

func TestPopularityEmptyPool(t *testing.T) {
	src := &Popularity{Movies: &fakeMovieStore{}}
	got, err := src.Score(context.Background(), &core.RecommendContext{Limit: 10})
	if err != nil {
		t.Fatalf("空池不应报错: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("空池应返回空列表, 实际 %d", len(got))
	}
}

func TestContentFromPositiveHistory(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{
		testMovie(1, []string{"Sci-Fi", "Action"}, 1000, 4.5), // 已看
		testMovie(2, []string{"Sci-Fi"}, 800, 4.0),
		testMovie(3, []string{"Romance"}, 900, 4.2), // 无类型交集
	}}
	ratings := &fakeRatingStore{ratings: map[int64][]core.Rating{
		7: {{MovieID: 1, Score: 4.5}},
	}}
	src := &Content{Movies: movies, Ratings: ratings}
	rctx := &core.RecommendContext{
		UserID:   7,
		Excluded: map[int64]struct{}{1: {}},
		Limit:    10,
	}

	got, err := src.Score(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Score 报错: %v", err)
	}
	if len(got) != 1 || got[0].MovieID != 2 {
		t.Fatalf("应只推荐类型相似的电影 2, 实际 %v 个候选", len(got))
	}
	// Jaccard({Sci-Fi}, {Sci-Fi, Action}) = 1/2
	if got[0].Score != 0.5 {
		t.Errorf("分数 = %v, 期望 0.5", got[0].Score)
	}
}

func TestContentFallbackToFavorites(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{
		testMovie(2, []string{"Horror"}, 800, 4.0),
		testMovie(3, []string{"Comedy"}, 900, 4.2),
	}}
	// 低分历史不算正向信号 → 回退到画像偏好
	ratings := &fakeRatingStore{ratings: map[int64][]core.Rating{
		7: {{MovieID: 9, Score: 2.0}},
	}}
	src := &Content{Movies: movies, Ratings: ratings}
	rctx := &core.RecommendContext{
		UserID: 7,
		User:   &core.UserProfile{UserID: 7, FavoriteGenres: []string{"Horror"}},
		Limit:  10,
	}

	got, err := src.Score(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Score 报错: %v", err)
	}
	if len(got) != 1 || got[0].MovieID != 2 {
		t.Fatalf("应按画像偏好推荐电影 2, 实际 %d 个候选", len(got))
	}
}

func TestContentNoSignal(t *testing.T) {
	src := &Content{
		Movies:  &fakeMovieStore{movies: []*core.Movie{testMovie(2, []string{"Horror"}, 800, 4.0)}},
		Ratings: &fakeRatingStore{},
	}
	got, err := src.Score(context.Background(), &core.RecommendContext{UserID: 7, Limit: 10})
	if err != nil {
		t.Fatalf("无信号不应报错: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("无任何类型信号应返回空列表, 实际 %d", len(got))
	}
}

func TestCollaborativeExcludesBeforePredict(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{
		testMovie(1, []string{"Action"}, 1000, 4.5),
		testMovie(2, []string{"Drama"}, 800, 4.0),
	}}
	predictor := &fakePredictor{scores: map[int64]float64{2: 0.9}}
	src := &Collaborative{Movies: movies, Predictor: predictor}
	rctx := &core.RecommendContext{UserID: 7, Excluded: map[int64]struct{}{1: {}}, Limit: 10}

	got, err := src.Score(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Score 报错: %v", err)
	}
	if predictor.calls != 1 {
		t.Fatalf("Predictor 应恰好被调用一次, 实际 %d", predictor.calls)
	}
	for _, id := range predictor.lastIDs {
		if id == 1 {
			t.Errorf("已排除的电影不应提交给 Predictor")
		}
	}
	if len(got) != 1 || got[0].MovieID != 2 {
		t.Fatalf("结果应只含电影 2, 实际 %d 个", len(got))
	}
}

func TestCollaborativeWrapsUpstreamError(t *testing.T) {
	movies := &fakeMovieStore{movies: []*core.Movie{testMovie(1, []string{"Action"}, 1000, 4.5)}}
	src := &Collaborative{
		Movies:    movies,
		Predictor: &fakePredictor{err: errors.New("connection reset")},
	}

	_, err := src.Score(context.Background(), &core.RecommendContext{UserID: 7, Limit: 10})
	if !core.IsPredictorUnavailable(err) {
		t.Fatalf("上游错误应包装为 PredictorUnavailable, 实际 %v", err)
	}
}
