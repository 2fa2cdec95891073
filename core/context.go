package core

// RecommendContext 承载单次推荐请求的用户与约束信息，贯穿打分/混排/重排透传。
// 引擎本身无共享可变状态，所有请求级数据都挂在这里。
type RecommendContext struct {
	UserID int64

	// User 是请求时刻的画像快照
	User *UserProfile

	// Excluded 是需要排除的电影 ID（已评分等）。
	// 由编排层统一计算一次并下发，各打分源不各自推导，避免口径漂移。
	Excluded map[int64]struct{}

	// Limit 是单个打分源应产出的候选数上限
	Limit int

	// Params 请求级扩展参数（规则表达式、实验参数等）
	Params map[string]any
}

// IsExcluded 检查电影是否在排除集内。
func (rctx *RecommendContext) IsExcluded(movieID int64) bool {
	if rctx.Excluded == nil {
		return false
	}
	_, ok := rctx.Excluded[movieID]
	return ok
}

// Exclude 把电影加入排除集。
func (rctx *RecommendContext) Exclude(movieID int64) {
	if rctx.Excluded == nil {
		rctx.Excluded = make(map[int64]struct{})
	}
	rctx.Excluded[movieID] = struct{}{}
}
