package utils

import "strings"

// Label 是推荐链路中的可解释标签：可追踪、可透传。
// Value 与 Source 的语义由业务自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // popularity / content / collaborative / blend / rerank / filter ...
}

// MergeLabel 合并同名 Label，遵循"保留历史、去重、可追踪"的默认策略。
// - Value: 以 '|' 累积，重复值不再追加
// - Source: 以 ',' 累积，重复来源不再追加
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = appendUnique(existing.Value, incoming.Value, "|")
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = appendUnique(existing.Source, incoming.Source, ",")
	}
	return merged
}

func appendUnique(acc, v, sep string) string {
	for _, part := range strings.Split(acc, sep) {
		if part == v {
			return acc
		}
	}
	return acc + sep + v
}
