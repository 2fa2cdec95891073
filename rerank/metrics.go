package rerank

import (
	"math"

	"github.com/cinerank/cinerank/core"
)

// 多样性指标的加权：类型熵 0.5、热门度离散 0.3、年份跨度 0.2。
const (
	genreWeight      = 0.5
	popularityWeight = 0.3
	yearWeight       = 0.2
)

// Diversity 计算最终列表的多样性指标。
// 纯描述性指标，只用于观测与报告，不参与重排决策；
// 无论是否做过 MMR 重排，编排层都会对最终列表计算一次。
func Diversity(movies []*core.Movie) core.DiversityMetrics {
	if len(movies) == 0 {
		return core.DiversityMetrics{}
	}

	genre := genreEntropy(movies)
	popularity := popularitySpread(movies)
	year := yearSpread(movies)

	return core.DiversityMetrics{
		Genre:      round3(genre),
		Popularity: round3(popularity),
		Year:       round3(year),
		Overall:    round3(genreWeight*genre + popularityWeight*popularity + yearWeight*year),
	}
}

// genreEntropy 计算类型分布的归一化香农熵。
// 高 = 类型多且分布均匀；低 = 集中在少数类型。
func genreEntropy(movies []*core.Movie) float64 {
	counts := make(map[string]int)
	total := 0
	for _, m := range movies {
		for _, g := range m.Genres {
			counts[g]++
			total++
		}
	}
	if len(counts) <= 1 || total == 0 {
		return 0
	}

	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy / math.Log2(float64(len(counts)))
}

// popularitySpread 计算评分数分布的离散度，衡量热门/小众的混合程度。
// 取归一化评分数的标准差，除以理论最大值 0.5 折算到 [0,1]。
func popularitySpread(movies []*core.Movie) float64 {
	if len(movies) < 2 {
		return 0.5
	}

	maxCount := 0
	for _, m := range movies {
		if m.RatingCount > maxCount {
			maxCount = m.RatingCount
		}
	}
	if maxCount == 0 {
		return 0
	}

	normalized := make([]float64, len(movies))
	mean := 0.0
	for i, m := range movies {
		normalized[i] = float64(m.RatingCount) / float64(maxCount)
		mean += normalized[i]
	}
	mean /= float64(len(normalized))

	variance := 0.0
	for _, v := range normalized {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(normalized) - 1)

	return math.Min(1.0, math.Sqrt(variance)/0.5)
}

// yearSpread 计算上映年份跨度，50 年以上视为最大多样性。
func yearSpread(movies []*core.Movie) float64 {
	years := make([]int, 0, len(movies))
	for _, m := range movies {
		if m.Year != nil {
			years = append(years, *m.Year)
		}
	}
	if len(years) < 2 {
		return 0.5
	}

	minYear, maxYear := years[0], years[0]
	for _, y := range years[1:] {
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	return math.Min(1.0, float64(maxYear-minYear)/50.0)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
