package filter

import (
	"context"

	"github.com/rushteam/vibekit/core"
)

// BudgetFilter 按模型中的预算约束过滤物品。
//
// 语义（与软性的相似度阈值相对，预算是硬约束）：
//   - 无任何边界时放行全部物品
//   - price < budget_min 或 price > budget_max 的物品剔除
//   - budget_min > budget_max 是矛盾约束：所有物品剔除，
//     结果为空集，绝不静默交换边界
//
// 纯过滤，无副作用；预算扩宽只会放行更多物品（单调性）。
type BudgetFilter struct {
	// Bounds 显式指定边界；未设置时每次从 rctx.Model 解析。
	Bounds *core.BudgetBounds
}

func (f *BudgetFilter) Name() string {
	return "filter.budget"
}

func (f *BudgetFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	var bounds core.BudgetBounds
	if f.Bounds != nil {
		bounds = *f.Bounds
	} else if rctx != nil {
		bounds = core.ResolveBudget(rctx.Model)
	}

	if !bounds.Constrained() {
		return false, nil
	}
	return !bounds.Contains(item.Price), nil
}
