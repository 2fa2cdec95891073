// Package blend 实现多路打分源的加权合并。
package blend

import (
	"sort"
	"strings"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/pkg/utils"
)

// Blend 把多路候选按源权重合并成一路排序列表。
//
// 这是加权并集而不是交集：候选只要出现在任意一路里就有资格进入结果，
// 未覆盖它的源按 0 分计。这对 hybrid 策略至关重要——稀疏用户的协同源
// 可能只返回很少甚至零个候选，内容源仍能撑起结果。
//
//	finalScore = Σ_source weight[source] * score[source][candidate]
//
// 排序：finalScore 降序；同分先比各源内最好名次（小者优先），再按电影 ID
// 升序。输入 map 的遍历顺序不影响输出（对源的合并按源名字典序进行）。
func Blend(
	perSource map[string][]*core.ScoredCandidate,
	weights map[string]float64,
	limit int,
) []*core.ScoredCandidate {
	type merged struct {
		score    float64
		bestRank int
		sources  []string
		labels   map[string]utils.Label
	}
	acc := make(map[int64]*merged)

	names := make([]string, 0, len(perSource))
	for name := range perSource {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w := weights[name]
		if w <= 0 {
			continue
		}
		for _, c := range perSource[name] {
			m, ok := acc[c.MovieID]
			if !ok {
				m = &merged{bestRank: c.Rank, labels: make(map[string]utils.Label)}
				acc[c.MovieID] = m
			}
			m.score += w * c.Score
			if c.Rank < m.bestRank || m.bestRank == 0 {
				m.bestRank = c.Rank
			}
			m.sources = append(m.sources, name)
			for k, lbl := range c.Labels {
				if old, exists := m.labels[k]; exists {
					m.labels[k] = utils.MergeLabel(old, lbl)
				} else {
					m.labels[k] = lbl
				}
			}
		}
	}

	out := make([]*core.ScoredCandidate, 0, len(acc))
	for id, m := range acc {
		out = append(out, &core.ScoredCandidate{
			MovieID: id,
			Score:   m.score,
			Source:  strings.Join(m.sources, "+"),
			Labels:  m.labels,
		})
	}

	ranks := make(map[int64]int, len(acc))
	for id, m := range acc {
		ranks[id] = m.bestRank
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		ri, rj := ranks[out[i].MovieID], ranks[out[j].MovieID]
		if ri != rj {
			return ri < rj
		}
		return out[i].MovieID < out[j].MovieID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i, c := range out {
		c.Rank = i + 1
	}
	return out
}
