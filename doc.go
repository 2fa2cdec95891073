// Package cinerank 是一个自适应电影推荐引擎。
//
// 设计要点：
// - Profile-first: 按用户评分数量分层（cold_start → power_user），分层决定打分策略
// - 多路打分: popularity / content / collaborative 并发执行，按策略权重混排
// - 优雅降级: 打分源失败时权重按比例重分配，全失败才报错
// - 多样性重排: 重度用户走 MMR，防止纯相关性排序陷入窄类型集
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package cinerank

import "github.com/cinerank/cinerank/pipeline"

// 轻量 facade：便于用户直接 import "cinerank" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindBlend  = pipeline.KindBlend
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
