package pipeline

import (
	"context"

	"github.com/rushteam/vibekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合硬约束的候选（预算、规则）
	KindRank        Kind = "rank"        // 排序阶段：置信度加权相似度打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：阈值截断 / TopN / 多样性调优
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充标签或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Filter 截断、Rank 打分、ReRank 重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
