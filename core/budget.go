package core

import (
	"fmt"
	"strconv"
)

// BudgetBounds 是从模型解析出的价格硬约束。
// 预算是二元约束：命中即保留，不命中即剔除，绝不软化为打分因子。
type BudgetBounds struct {
	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// ResolveBudget 从模型解析预算上下界。
// 不可解析的预算属性视为无约束（见 AttributeModel.Numeric）。
func ResolveBudget(m *AttributeModel) BudgetBounds {
	var b BudgetBounds
	if m == nil {
		return b
	}
	if v, ok := m.Numeric(AttrBudgetMin); ok {
		b.Min, b.HasMin = v, true
	}
	if v, ok := m.Numeric(AttrBudgetMax); ok {
		b.Max, b.HasMax = v, true
	}
	return b
}

// Constrained 判断是否存在任一边界。
func (b BudgetBounds) Constrained() bool {
	return b.HasMin || b.HasMax
}

// Contradictory 判断约束是否自相矛盾（min > max）。
// 矛盾约束必须显式报告为"无结果"，绝不静默交换边界。
func (b BudgetBounds) Contradictory() bool {
	return b.HasMin && b.HasMax && b.Min > b.Max
}

// Contains 判断价格是否落在区间内。矛盾区间不包含任何价格。
func (b BudgetBounds) Contains(price float64) bool {
	if b.HasMin && price < b.Min {
		return false
	}
	if b.HasMax && price > b.Max {
		return false
	}
	return true
}

// String 渲染边界，用于面向用户的提示文案。
func (b BudgetBounds) String() string {
	switch {
	case b.HasMin && b.HasMax:
		return fmt.Sprintf("$%s-$%s", trimFloat(b.Min), trimFloat(b.Max))
	case b.HasMin:
		return fmt.Sprintf("over $%s", trimFloat(b.Min))
	case b.HasMax:
		return fmt.Sprintf("under $%s", trimFloat(b.Max))
	default:
		return "any price"
	}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
