package rerank

import (
	"context"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pipeline"
)

// Diversity 是一个简单的多样性 ReRank：按描述性属性去重（保留首个出现的值）。
// 默认按 category 去重，避免返回十条几乎一样的连衣裙。
// 属性值来源优先级：
// - attrs[AttrKey]
// - label[AttrKey].Value
type Diversity struct {
	AttrKey string // 默认 core.AttrCategory
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.AttrKey
	if key == "" {
		key = core.AttrCategory
	}

	seen := make(map[string]bool, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		val := it.Attrs[key]
		if val == "" && it.Labels != nil {
			if lbl, ok := it.Labels[key]; ok {
				val = lbl.Value
			}
		}

		if val == "" {
			out = append(out, it)
			continue
		}
		if seen[val] {
			continue
		}
		seen[val] = true
		out = append(out, it)
	}

	return out, nil
}
