package core

import (
	"context"
	"time"
)

// 引擎边界上的协作方契约。接口定义在领域层（core），由基础设施层实现，
// 领域层不依赖任何具体存储/传输。引擎假设读取到的是一致快照，
// 不在这里规定协作方内部的并发控制。

// ProfileStore 提供用户画像查询。
type ProfileStore interface {
	// FindByID 按用户 ID 查询画像；用户不存在时返回 ErrUserNotFound
	FindByID(ctx context.Context, userID int64) (*UserProfile, error)
}

// CandidateFilter 是候选电影的查询条件。
type CandidateFilter struct {
	// MinRatingCount 最低评分数门槛（热门池过滤）
	MinRatingCount int

	// Genres 若非空，只返回命中任一类型的电影
	Genres []string

	// Limit 返回数量上限，按评分数降序截断
	Limit int
}

// MovieStore 提供候选电影查询。
type MovieStore interface {
	// FindCandidates 按条件查询候选池，评分数降序
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]*Movie, error)

	// FindByIDs 批量查询电影快照；不存在的 ID 不出现在结果里
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Movie, error)
}

// Rating 是一条评分事件。
type Rating struct {
	MovieID   int64
	Score     float64 // 0.5-5.0
	Timestamp time.Time
}

// RatingStore 提供评分历史查询。
type RatingStore interface {
	// FindByUser 查询用户全部评分
	FindByUser(ctx context.Context, userID int64) ([]Rating, error)

	// FindRecent 查询最近 days 天内的评分事件（跨用户，用于 trending）
	FindRecent(ctx context.Context, days int, limit int) ([]Rating, error)
}

// Predictor 是不透明的打分预言机（如训练好的协同过滤模型）。
// 输出已归一化到 [0,1]；瞬时故障以 ErrPredictorUnavailable（或其包裹）表示，
// 由编排层降级处理。
type Predictor interface {
	// Predict 对候选集批量打分，返回 movieID → score
	Predict(ctx context.Context, userID int64, movieIDs []int64) (map[int64]float64, error)
}

// ResultCache 是结果缓存契约：带 TTL 的读写 + 按模式失效。
// 缓存故障对主计算永远非致命。
type ResultCache interface {
	// Get 按 key 读取结果；未命中返回 ErrCacheMiss
	Get(ctx context.Context, key string) (*Result, error)

	// Set 写入结果，ttl 单位秒
	Set(ctx context.Context, key string, result *Result, ttlSeconds int) error

	// InvalidatePattern 按通配模式删除（如 "recommendations:user:42:*"）
	InvalidatePattern(ctx context.Context, pattern string) error
}
