package pipeline

import (
	"context"

	"github.com/cinerank/cinerank/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindBlend  Kind = "blend"  // 混排阶段：按策略权重合并多路候选
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合业务规则的候选
	KindReRank Kind = "rerank" // 重排阶段：在混排结果上做多样性调优
)

// Node 是混排后处理链的最小可扩展单元。
// 统一采用"输入 candidates -> 输出 candidates"的形态，
// 方便过滤、截断、多样性重排等操作自由组合。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		candidates []*core.ScoredCandidate,
	) ([]*core.ScoredCandidate, error)
}
