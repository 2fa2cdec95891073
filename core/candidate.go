package core

import "github.com/cinerank/cinerank/pkg/utils"

// 打分源标签。每个打分源产出一路候选，混排按源权重合并。
const (
	SourcePopularity    = "popularity"    // 热门度
	SourceContent       = "content"       // 内容相似（类型 Jaccard）
	SourceCollaborative = "collaborative" // 协同预测（外部模型）
)

// ScoredCandidate 是单次请求内流转的候选：电影、归一化分数、来源、名次。
// 请求结束即丢弃，不跨请求共享。Labels 用于解释与观测，全链路透传。
type ScoredCandidate struct {
	MovieID int64

	// Score 归一化分数，[0,1]
	Score float64

	// Source 产出该候选的打分源标签；混排后为各贡献源按 "+" 连接
	Source string

	// Rank 在所属打分源内部排序后的名次，从 1 开始
	Rank int

	// Explanation 可选的推荐理由
	Explanation string

	// Labels 可解释标签（来源、降级原因等）
	Labels map[string]utils.Label
}

// NewScoredCandidate 创建一个带来源标签的候选。
func NewScoredCandidate(movieID int64, score float64, source string) *ScoredCandidate {
	c := &ScoredCandidate{
		MovieID: movieID,
		Score:   score,
		Source:  source,
	}
	c.PutLabel("source", utils.Label{Value: source, Source: source})
	return c
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *ScoredCandidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (c *ScoredCandidate) GetLabel(key string) (utils.Label, bool) {
	if c.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := c.Labels[key]
	return lbl, ok
}
