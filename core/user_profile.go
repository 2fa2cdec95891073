package core

import "time"

// Tier 是按评分数划分的用户分层，驱动策略选择。
type Tier string

const (
	TierColdStart Tier = "cold_start" // 0 条评分，无任何信号
	TierNew       Tier = "new"        // 1-5 条评分
	TierCasual    Tier = "casual"     // 6-20 条评分
	TierActive    Tier = "active"     // 21-100 条评分
	TierPowerUser Tier = "power_user" // 101+ 条评分
)

// ClassifyRatingCount 按评分数分层。纯函数、确定性，边界为闭区间：
//
//	0      → ColdStart
//	1-5    → New
//	6-20   → Casual
//	21-100 → Active
//	101+   → PowerUser
//
// 评分数为负属于前置条件违反，返回 ErrInvalidProfile 而不是静默截断。
func ClassifyRatingCount(ratingCount int) (Tier, error) {
	if ratingCount < 0 {
		return "", ErrInvalidProfile
	}
	switch {
	case ratingCount == 0:
		return TierColdStart, nil
	case ratingCount <= 5:
		return TierNew, nil
	case ratingCount <= 20:
		return TierCasual, nil
	case ratingCount <= 100:
		return TierActive, nil
	default:
		return TierPowerUser, nil
	}
}

// UserProfile 是用户画像的只读快照。
// 仅由评分写入方（外部协作方）变更；引擎在一次请求内把它当不可变数据读取，
// 分层永远基于请求时刻的快照计算，不做跨请求缓存。
type UserProfile struct {
	UserID int64

	// RatingCount 累计评分数，非负
	RatingCount int

	// AvgRating 平均评分，评分尺度 0.5-5.0；RatingCount 为 0 时取 0
	AvgRating float64

	// LastActivity 最近一次活跃时间，可为空
	LastActivity *time.Time

	// FavoriteGenres 用户声明的偏好类型，可为空
	FavoriteGenres []string
}

// Tier 返回画像当前快照对应的分层。
func (p *UserProfile) Tier() (Tier, error) {
	return ClassifyRatingCount(p.RatingCount)
}

// IsActive 检查用户最近 30 天内是否活跃。
func (p *UserProfile) IsActive(now time.Time) bool {
	if p.LastActivity == nil {
		return false
	}
	return now.Sub(*p.LastActivity) <= 30*24*time.Hour
}
