// Package engine 实现推荐请求的编排：缓存检查、分层与策略选择、
// 打分源并发执行、加权混排、过滤、多样性重排、缓存写入。
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cinerank/cinerank/blend"
	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/filter"
	"github.com/cinerank/cinerank/pipeline"
	"github.com/cinerank/cinerank/rerank"
	"github.com/cinerank/cinerank/scorer"
	"github.com/cinerank/cinerank/store"
	"github.com/cinerank/cinerank/strategy"
)

// Deps 是引擎的外部协作方。Profiles、Movies、Ratings 必填；
// Predictor 为 nil 时协同源不可用（依赖它的策略自动降级）；
// Cache 为 nil 时不做结果缓存；Blobs 供黑名单等辅助数据，可为 nil。
type Deps struct {
	Profiles  core.ProfileStore
	Movies    core.MovieStore
	Ratings   core.RatingStore
	Predictor core.Predictor
	Cache     core.ResultCache
	Blobs     core.Store
}

// Engine 是推荐引擎的编排器。
//
// 无共享可变状态：所有请求级数据都挂在 RecommendContext 上，
// 同一个 Engine 可以被任意多个 goroutine 并发调用。
type Engine struct {
	deps Deps
	cfg  Config

	fanout *scorer.Fanout
	post   *pipeline.Pipeline
}

// New 创建推荐引擎。规则表达式在这里一次性编译，编译失败直接报错。
func New(deps Deps, cfg Config) (*Engine, error) {
	if deps.Profiles == nil || deps.Movies == nil || deps.Ratings == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: profiles, movies and ratings stores are required")
	}
	cfg = cfg.withDefaults()

	sources := map[string]scorer.Source{
		core.SourcePopularity: &scorer.Popularity{
			Movies:         deps.Movies,
			PoolSize:       cfg.PoolSize,
			MinRatingCount: cfg.MinRatingCount,
		},
		core.SourceContent: &scorer.Content{
			Movies:            deps.Movies,
			Ratings:           deps.Ratings,
			PositiveThreshold: cfg.PositiveThreshold,
			PoolSize:          cfg.PoolSize,
		},
	}
	if deps.Predictor != nil {
		sources[core.SourceCollaborative] = &scorer.Collaborative{
			Movies:    deps.Movies,
			Predictor: deps.Predictor,
			PoolSize:  cfg.PoolSize,
		}
	}

	e := &Engine{
		deps: deps,
		cfg:  cfg,
		fanout: &scorer.Fanout{
			Sources: sources,
			Timeout: cfg.sourceTimeout(),
		},
	}

	post, err := buildPostPipeline(cfg, deps)
	if err != nil {
		return nil, err
	}
	e.post = post

	return e, nil
}

// buildPostPipeline 把配置里的过滤规则组装成混排后的处理链。
func buildPostPipeline(cfg Config, deps Deps) (*pipeline.Pipeline, error) {
	var filters []filter.Filter
	for _, expr := range cfg.Rules {
		rule, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", expr, err)
		}
		filters = append(filters, rule)
	}
	if len(cfg.Blacklist) > 0 || deps.Blobs != nil {
		filters = append(filters, &filter.BlacklistFilter{
			Store: deps.Blobs,
			IDs:   cfg.Blacklist,
		})
	}
	if len(filters) == 0 {
		return nil, nil
	}
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.FilterNode{Filters: filters, Movies: deps.Movies},
		},
	}, nil
}

// Generate 为用户产出一次推荐。
//
// 流程：画像 → 分层 → 策略 → 缓存检查（forceRefresh 跳过）→ 排除集 →
// 打分源并发执行 → 失败源权重重分配 → 加权混排 → 过滤 → 多样性重排
// （策略开关控制）→ 多样性指标 → 缓存写入（分层 TTL，失败非致命）。
//
// 降级语义：部分打分源失败时，幸存源按原权重比例重分配后继续出结果，
// 策略名追加降级后缀供调用方观测，降级结果不写缓存（源恢复后立即生效）；
// 全部失败才返回 ErrRecommendationUnavailable。
func (e *Engine) Generate(ctx context.Context, userID int64, count int, forceRefresh bool) (*core.Result, error) {
	if userID <= 0 {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: user id must be positive")
	}
	if count <= 0 {
		count = DefaultCount
	}

	user, err := e.deps.Profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	tier, err := user.Tier()
	if err != nil {
		return nil, err
	}
	strat, err := strategy.Select(tier)
	if err != nil {
		return nil, err
	}

	// 缓存 key 带策略名，所以先定策略再查缓存。
	// 命中时打分源和预测服务全程不被触达。
	key := store.CacheKey(userID, count, strat.Name)
	if e.deps.Cache != nil && !forceRefresh {
		cached, err := e.deps.Cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !core.IsCacheMiss(err) {
			log.Printf("engine: cache read failed for user %d: %v", userID, err)
		}
	}

	// 排除集统一算一次下发，各源不各自回源评分历史
	history, err := e.deps.Ratings.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int64]struct{}, len(history))
	for _, r := range history {
		excluded[r.MovieID] = struct{}{}
	}

	rctx := &core.RecommendContext{
		UserID:   userID,
		User:     user,
		Excluded: excluded,
		Limit:    count * e.cfg.Overfetch,
	}

	results, errs := e.fanout.Run(ctx, rctx, strat.Sources())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	weights := strat.Weights
	degraded := false
	if len(errs) > 0 {
		failed := make(map[string]bool, len(errs))
		for name, serr := range errs {
			failed[name] = true
			log.Printf("engine: source %s failed for user %d: %v", name, userID, serr)
		}
		weights = strategy.Redistribute(strat.Weights, failed)
		if weights == nil {
			return nil, fmt.Errorf("%w: user %d", core.ErrRecommendationUnavailable, userID)
		}
		degraded = true
	}

	blended := blend.Blend(results, weights, rctx.Limit)

	if e.post != nil {
		blended, err = e.post.Run(ctx, rctx, blended)
		if err != nil {
			return nil, err
		}
	}

	// 电影快照一次批量读取，重排、指标和推荐理由共用
	ids := make([]int64, 0, len(blended))
	for _, c := range blended {
		ids = append(ids, c.MovieID)
	}
	movies, err := e.deps.Movies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var final []*core.ScoredCandidate
	if strat.UseDiversity {
		final = rerank.Rerank(blended, movies, e.cfg.Lambda, count)
	} else {
		final = blended
		if len(final) > count {
			final = final[:count]
		}
		for i, c := range final {
			c.Rank = i + 1
		}
	}

	items := make([]core.Recommendation, 0, len(final))
	picked := make([]*core.Movie, 0, len(final))
	for _, c := range final {
		rec := core.Recommendation{
			MovieID: c.MovieID,
			Score:   c.Score,
			Rank:    c.Rank,
			Source:  c.Source,
		}
		if m := movies[c.MovieID]; m != nil {
			picked = append(picked, m)
			if *e.cfg.Explanations {
				rec.Explanation = explanation(m, user.FavoriteGenres, c.Source)
			}
		}
		items = append(items, rec)
	}

	name := strat.Name
	if degraded {
		name = strategy.Degraded(name)
	}

	result := &core.Result{
		UserID:      userID,
		Items:       items,
		Strategy:    name,
		Tier:        tier,
		Diversity:   rerank.Diversity(picked),
		GeneratedAt: time.Now().UTC(),
	}

	// 降级结果不写缓存：读取只走主策略 key，写入降级条目只会白占 TTL；
	// 不缓存还保证源恢复后下一次请求立即走全量计算
	if e.deps.Cache != nil && !degraded {
		if err := e.deps.Cache.Set(ctx, key, result, e.cfg.ttlFor(tier)); err != nil {
			log.Printf("engine: cache write failed for user %d: %v", userID, err)
		}
	}

	return result, nil
}
