// Package config 提供配置驱动的后处理链构建：
// 把 YAML/JSON 里声明的 Node 列表翻译成可执行的 Pipeline。
package config

import (
	"fmt"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/filter"
	"github.com/cinerank/cinerank/pipeline"
	"github.com/cinerank/cinerank/pkg/conv"
	"github.com/cinerank/cinerank/rerank"
)

// DefaultFactory 返回注册了内置 Node 的工厂。
//
// 内置 Node 及其配置项：
//
//	filter:
//	  rules: CEL 表达式列表，命中即移除
//	  blacklist: 静态屏蔽的电影 ID 列表
//	  blacklist_key: 动态黑名单在 blobs 存储里的 key
//	rerank.mmr:
//	  lambda: 相关性权重，默认 0.7
//	  limit: 重排后保留数量，0 表示沿用请求的 Limit
//	rerank.topn:
//	  n: 截断数量，0 表示沿用请求的 Limit
//
// movies 供 filter 和 rerank.mmr 读取电影快照；blobs 供动态黑名单，可为 nil。
func DefaultFactory(movies core.MovieStore, blobs core.Store) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("filter", func(cfg map[string]interface{}) (pipeline.Node, error) {
		var filters []filter.Filter

		for _, raw := range conv.ConfigGet(cfg, "rules", []any(nil)) {
			expr, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("filter rule must be a string, got %T", raw)
			}
			rule, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("compile rule %q: %w", expr, err)
			}
			filters = append(filters, rule)
		}

		ids := conv.SliceAnyToInt64(conv.ConfigGet(cfg, "blacklist", []any(nil)))
		key := conv.ConfigGet(cfg, "blacklist_key", "")
		if len(ids) > 0 || key != "" {
			filters = append(filters, &filter.BlacklistFilter{
				Store: blobs,
				Key:   key,
				IDs:   ids,
			})
		}

		return &filter.FilterNode{Filters: filters, Movies: movies}, nil
	})

	f.Register("rerank.mmr", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.MMRNode{
			Movies: movies,
			Lambda: conv.ConfigGetFloat64(cfg, "lambda", rerank.DefaultLambda),
			Limit:  int(conv.ConfigGetInt64(cfg, "limit", 0)),
		}, nil
	})

	f.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopNNode{
			N: int(conv.ConfigGetInt64(cfg, "n", 0)),
		}, nil
	})

	return f
}
