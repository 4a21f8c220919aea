// Package reelkit 是一个电影推荐引擎工具包（Movie Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 降级追踪
// - Snapshot-in: 目录与交互数据以不可变快照注入，引擎内部无 I/O、无全局可变状态
// - Fallback-always: 每个策略都有文档化的兜底路径，最终落到热门；调用方总能拿到一份列表
package reelkit

import "github.com/reelkit/reelkit/pipeline"

// 轻量 facade：便于用户直接 import "reelkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
