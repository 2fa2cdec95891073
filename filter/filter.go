// Package filter 实现候选的业务规则过滤。
package filter

import (
	"context"

	"github.com/cinerank/cinerank/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
// movie 是候选对应的电影快照，由 FilterNode 统一批量读取后下发，可能为 nil。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, candidate *core.ScoredCandidate, movie *core.Movie) (bool, error)
}
