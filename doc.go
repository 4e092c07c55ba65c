// Package vibekit 是一个会话式商品推荐工具包（Vibe Shopping Kit）。
//
// 设计要点：
// - 置信度优先: 用户偏好以 属性 → 带置信度候选 的模型累积，低置信度驱动追问而非打分
// - Pipeline-first: 匹配逻辑通过 Node 串联（Filter → Rank → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 可复现: 相同目录与相同偏好模型永远得到相同的排序结果
package vibekit

import "github.com/rushteam/vibekit/pipeline"

// 轻量 facade：便于用户直接 import "vibekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
