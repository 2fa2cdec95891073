package filter

import (
	"context"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的业务规则过滤器。
// 表达式求值为 true 的候选会被过滤，例如：
//
//	movie.rating_count < 5
//	"Horror" in movie.genres && user.rating_count == 0
//
// 规则通常来自引擎配置（YAML），启动时编译一次。
type RuleFilter struct {
	program *dsl.Program
}

// NewRuleFilter 编译规则表达式并创建过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{program: prg}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule:" + f.program.Expr()
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	candidate *core.ScoredCandidate,
	movie *core.Movie,
) (bool, error) {
	var user *core.UserProfile
	if rctx != nil {
		user = rctx.User
	}
	return f.program.Eval(candidate, movie, user)
}

var _ Filter = (*RuleFilter)(nil)
