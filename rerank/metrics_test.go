package rerank

import (
	"math"
	"testing"

	"github.com/cinerank/cinerank/core"
)

func movieWith(id int64, genres []string, count int, year int) *core.Movie {
	m := core.NewMovie(id, "", genres)
	m.RatingCount = count
	m.Year = &year
	return m
}

func TestDiversityEmpty(t *testing.T) {
	got := Diversity(nil)
	if got.Overall != 0 {
		t.Fatalf("空列表的多样性应为零值, 实际 %+v", got)
	}
}

func TestGenreEntropySingleGenre(t *testing.T) {
	movies := []*core.Movie{
		movieWith(1, []string{"Action"}, 100, 2000),
		movieWith(2, []string{"Action"}, 200, 2001),
	}
	if got := genreEntropy(movies); got != 0 {
		t.Errorf("单一类型的熵应为 0, 实际 %v", got)
	}
}

func TestGenreEntropyUniform(t *testing.T) {
	// 四种类型各出现一次 → 归一化熵为 1
	movies := []*core.Movie{
		movieWith(1, []string{"Action"}, 100, 2000),
		movieWith(2, []string{"Drama"}, 100, 2000),
		movieWith(3, []string{"Comedy"}, 100, 2000),
		movieWith(4, []string{"Horror"}, 100, 2000),
	}
	if got := genreEntropy(movies); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("均匀分布的归一化熵应为 1, 实际 %v", got)
	}
}

func TestPopularitySpread(t *testing.T) {
	// 单部电影 → 中性 0.5
	one := []*core.Movie{movieWith(1, []string{"Action"}, 100, 2000)}
	if got := popularitySpread(one); got != 0.5 {
		t.Errorf("样本不足应返回中性值 0.5, 实际 %v", got)
	}

	// 全部同评分数 → 无离散度
	same := []*core.Movie{
		movieWith(1, []string{"Action"}, 100, 2000),
		movieWith(2, []string{"Drama"}, 100, 2001),
	}
	if got := popularitySpread(same); got != 0 {
		t.Errorf("同评分数的离散度应为 0, 实际 %v", got)
	}

	// 热门与小众混合 → 离散度高
	mixed := []*core.Movie{
		movieWith(1, []string{"Action"}, 10000, 2000),
		movieWith(2, []string{"Drama"}, 10, 2001),
	}
	if got := popularitySpread(mixed); got < 0.9 {
		t.Errorf("极端混合的离散度应接近 1, 实际 %v", got)
	}
}

func TestYearSpread(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		want  float64
	}{
		{"同年", []int{2000, 2000}, 0},
		{"25年跨度", []int{1990, 2015}, 0.5},
		{"50年以上封顶", []int{1950, 2020}, 1.0},
	}
	for _, tt := range tests {
		movies := make([]*core.Movie, len(tt.years))
		for i, y := range tt.years {
			movies[i] = movieWith(int64(i+1), []string{"Drama"}, 100, y)
		}
		if got := yearSpread(movies); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: yearSpread = %v, 期望 %v", tt.name, got, tt.want)
		}
	}
}

func TestYearSpreadMissingYears(t *testing.T) {
	m1 := core.NewMovie(1, "", []string{"Drama"})
	m2 := core.NewMovie(2, "", []string{"Drama"})
	if got := yearSpread([]*core.Movie{m1, m2}); got != 0.5 {
		t.Errorf("年份缺失应返回中性值 0.5, 实际 %v", got)
	}
}

func TestDiversityWeights(t *testing.T) {
	movies := []*core.Movie{
		movieWith(1, []string{"Action"}, 10000, 1970),
		movieWith(2, []string{"Drama"}, 10, 2020),
	}
	got := Diversity(movies)
	want := round3(0.5*genreEntropy(movies) + 0.3*popularitySpread(movies) + 0.2*yearSpread(movies))
	if math.Abs(got.Overall-want) > 1e-9 {
		t.Errorf("Overall = %v, 期望 %v", got.Overall, want)
	}
}
