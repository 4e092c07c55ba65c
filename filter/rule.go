package filter

import (
	"context"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器，
// 让部署方用一行表达式表达临时的目录约束（售罄类目、下架规则等）。
//
// Expr 表达真值时保留物品，为假时过滤。示例：
//   - `item.attrs.category != "pants"`
//   - `item.price < 200.0 || item.attrs.occasion == "Party"`
type RuleFilter struct {
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return item == nil, nil
	}

	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
