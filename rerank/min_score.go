package rerank

import (
	"context"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pipeline"
)

// MinScoreNode 按分数阈值截断：score <= MinScore 的物品剔除。
//
// 阈值是质量线而非正确性约束：目录里唯一满足预算的物品如果与风格
// 毫不相关，宁可空手而归也不返回它。与预算过滤（硬约束）相对，
// 这是软性的相关性门槛。
type MinScoreNode struct {
	// MinScore 分数阈值，保留 score > MinScore 的物品。
	MinScore float64
}

func (n *MinScoreNode) Name() string {
	return "rerank.min_score"
}

func (n *MinScoreNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *MinScoreNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Score > n.MinScore {
			out = append(out, it)
		}
	}
	return out, nil
}
