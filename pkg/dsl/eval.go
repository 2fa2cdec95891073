// Package dsl 提供基于 CEL (Common Expression Language) 的业务规则解释器。
//
// 规则表达式作用在三个变量上：
//   - candidate: 候选（movie_id / score / source / rank）
//   - movie:     电影快照（id / title / genres / year / rating_count / avg_rating）
//   - user:      用户画像（id / rating_count / avg_rating / favorite_genres）
//
// 示例：
//   - `movie.rating_count < 5`                     → 过滤样本过少的电影
//   - `"Horror" in movie.genres && user.age < 18`  → 类型准入规则
//   - `candidate.score < 0.05`                     → 过滤低分尾部
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/cinerank/cinerank/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = cel.NewEnv(
			cel.Variable("candidate", cel.DynType),
			cel.Variable("movie", cel.DynType),
			cel.Variable("user", cel.DynType),
		)
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("dsl: cel env not initialized")
	}
	return celEnv, err
}

// Program 是一条编译好的规则表达式，可在多个候选上复用，线程安全。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译规则表达式。表达式必须产出布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本（用于日志/观测）。
func (p *Program) Expr() string { return p.expr }

// Eval 对单个候选求值。movie、user 可为 nil，对应变量取空 map。
func (p *Program) Eval(
	candidate *core.ScoredCandidate,
	movie *core.Movie,
	user *core.UserProfile,
) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		"candidate": candidateVars(candidate),
		"movie":     movieVars(movie),
		"user":      userVars(user),
	})
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", p.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q did not return bool", p.expr)
	}
	return b, nil
}

func candidateVars(c *core.ScoredCandidate) map[string]any {
	if c == nil {
		return map[string]any{}
	}
	return map[string]any{
		"movie_id": c.MovieID,
		"score":    c.Score,
		"source":   c.Source,
		"rank":     c.Rank,
	}
}

func movieVars(m *core.Movie) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	year := 0
	if m.Year != nil {
		year = *m.Year
	}
	return map[string]any{
		"id":           m.ID,
		"title":        m.Title,
		"genres":       m.Genres,
		"year":         year,
		"rating_count": m.RatingCount,
		"avg_rating":   m.AvgRating,
	}
}

func userVars(u *core.UserProfile) map[string]any {
	if u == nil {
		return map[string]any{}
	}
	return map[string]any{
		"id":              u.UserID,
		"rating_count":    u.RatingCount,
		"avg_rating":      u.AvgRating,
		"favorite_genres": u.FavoriteGenres,
	}
}
