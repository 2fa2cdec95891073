// Package strategy 实现分层到打分策略的选择。
//
// 策略表是一张封闭的配置表：一行对应一个用户分层，给出策略名、
// 各打分源的权重分布和是否启用多样性重排。选择是分层的纯函数，
// 没有任何隐藏状态；扩展方式是加表行 + 新增实现打分契约的 Source，
// 而不是运行时类型分派。
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cinerank/cinerank/core"
)

// 策略名。降级时在名字后追加 DegradedSuffix，调用方可据此观测部分降级。
const (
	NamePopular                = "popular"
	NameContentBased           = "content_based"
	NameHybrid                 = "hybrid"
	NameCollaborativeDiversity = "collaborative_diversity"

	DegradedSuffix = "_degraded"
)

// Strategy 是一行策略表：名字、源权重分布、多样性开关。
type Strategy struct {
	Name string

	// Weights 打分源 → 权重，同一策略内权重和恒为 1.0（构造保证，而非下游运行时检查）
	Weights map[string]float64

	// UseDiversity 是否对混排结果做 MMR 多样性重排
	UseDiversity bool
}

// Clone 返回策略的深拷贝，调用方可安全改写权重（降级重分配）。
func (s Strategy) Clone() Strategy {
	w := make(map[string]float64, len(s.Weights))
	for k, v := range s.Weights {
		w[k] = v
	}
	return Strategy{Name: s.Name, Weights: w, UseDiversity: s.UseDiversity}
}

// Sources 返回策略引用的打分源标签，按字典序（确定性遍历）。
func (s Strategy) Sources() []string {
	out := make([]string, 0, len(s.Weights))
	for src := range s.Weights {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

// table 是分层 → 策略的固定映射。
//
// 设计考量：冷启动用户没有协同信号，只能走热门；新用户以内容信号为主；
// 中间层用户画像逐渐稳定，协同权重随之上升；重度用户纯相关性排序容易
// 陷入窄类型集（filter bubble），所以叠加多样性重排。
var table = map[core.Tier]Strategy{
	core.TierColdStart: {
		Name:    NamePopular,
		Weights: map[string]float64{core.SourcePopularity: 1.0},
	},
	core.TierNew: {
		Name: NameContentBased,
		Weights: map[string]float64{
			core.SourceContent:    0.7,
			core.SourcePopularity: 0.3,
		},
	},
	core.TierCasual: {
		Name: NameHybrid,
		Weights: map[string]float64{
			core.SourceCollaborative: 0.6,
			core.SourceContent:       0.4,
		},
	},
	core.TierActive: {
		Name: NameHybrid,
		Weights: map[string]float64{
			core.SourceCollaborative: 0.8,
			core.SourceContent:       0.2,
		},
	},
	core.TierPowerUser: {
		Name: NameCollaborativeDiversity,
		Weights: map[string]float64{
			core.SourceCollaborative: 0.7,
			core.SourceContent:       0.3,
		},
		UseDiversity: true,
	},
}

// Select 返回分层对应的策略。分层的纯函数；未知分层属于调用方 bug，直接报错。
func Select(tier core.Tier) (Strategy, error) {
	s, ok := table[tier]
	if !ok {
		return Strategy{}, fmt.Errorf("strategy: unknown tier %q", tier)
	}
	return s.Clone(), nil
}

// Redistribute 把失败源的权重按比例重分配到幸存源上，返回新的权重表。
// 幸存源为空时返回 nil（所有源都失败，由编排层转为整体不可用）。
func Redistribute(weights map[string]float64, failed map[string]bool) map[string]float64 {
	var surviving float64
	for src, w := range weights {
		if !failed[src] {
			surviving += w
		}
	}
	if surviving <= 0 {
		return nil
	}

	out := make(map[string]float64, len(weights))
	for src, w := range weights {
		if failed[src] {
			continue
		}
		out[src] = w / surviving
	}
	return out
}

// Degraded 返回部分降级后的策略名，幂等。
func Degraded(name string) string {
	if strings.HasSuffix(name, DegradedSuffix) {
		return name
	}
	return name + DegradedSuffix
}
