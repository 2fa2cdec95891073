package core

import "time"

// Recommendation 是最终结果中的一项。
type Recommendation struct {
	MovieID     int64   `json:"movie_id"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	Source      string  `json:"source"`
	Explanation string  `json:"explanation,omitempty"`
}

// DiversityMetrics 是最终列表的多样性指标，仅用于观测与报告，
// 不参与重排决策。Overall = 0.5*Genre + 0.3*Popularity + 0.2*Year。
type DiversityMetrics struct {
	Genre      float64 `json:"genre"`      // 类型分布的归一化香农熵
	Popularity float64 `json:"popularity"` // 评分数分布的离散度（热门/小众混合度）
	Year       float64 `json:"year"`       // 上映年份跨度
	Overall    float64 `json:"overall"`    // 加权总分
}

// Result 是一次推荐请求的完整产出。
// 只写入结果缓存（带 TTL），不作为任何数据的 system of record。
type Result struct {
	UserID      int64            `json:"user_id"`
	Items       []Recommendation `json:"items"`
	Strategy    string           `json:"strategy"`
	Tier        Tier             `json:"tier"`
	Diversity   DiversityMetrics `json:"diversity"`
	GeneratedAt time.Time        `json:"generated_at"`
}
