package core

import (
	"math"
	"strings"
)

// Movie 是候选电影的只读快照。
// Genres 永不为空：来源数据缺失类型时落到单个 "Unknown" 标签。
type Movie struct {
	ID     int64
	Title  string
	Genres []string

	// Year 上映年份，可为空
	Year *int

	// RatingCount / AvgRating 聚合评分统计，尺度同 UserProfile
	RatingCount int
	AvgRating   float64
}

// NewMovie 创建一个电影快照并做类型标签兜底。
func NewMovie(id int64, title string, genres []string) *Movie {
	if len(genres) == 0 {
		genres = []string{"Unknown"}
	}
	return &Movie{
		ID:     id,
		Title:  title,
		Genres: genres,
	}
}

// GenreSimilarity 计算与另一组类型标签的 Jaccard 相似度（0-1）。
// 类型比较不区分大小写；任一侧为空时相似度为 0。
func (m *Movie) GenreSimilarity(other []string) float64 {
	return JaccardGenres(m.Genres, other)
}

// HasGenre 检查电影是否属于某个类型（不区分大小写）。
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// IsPopular 检查电影是否达到热门评分数阈值。
func (m *Movie) IsPopular(threshold int) bool {
	return m.RatingCount >= threshold
}

// IsWellRated 检查电影平均分是否达到阈值。
func (m *Movie) IsWellRated(threshold float64) bool {
	return m.AvgRating >= threshold
}

// PopularityScore 计算热门度原始分：log10(评分数+1) * 平均分。
// log 压缩评分数，避免超高热度影片完全支配排序；归一化由调用方在候选池上做。
func (m *Movie) PopularityScore() float64 {
	if m.RatingCount == 0 {
		return 0
	}
	return math.Log10(float64(m.RatingCount)+1) * m.AvgRating
}

// JaccardGenres 计算两组类型标签的 Jaccard 相似度（0-1）。
// 交集/并集，不区分大小写；任一侧为空时为 0。
func JaccardGenres(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, g := range a {
		setA[strings.ToLower(g)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, g := range b {
		setB[strings.ToLower(g)] = struct{}{}
	}

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
