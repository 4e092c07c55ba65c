package filter

import (
	"context"
	"testing"

	"github.com/rushteam/vibekit/core"
)

func modelWithBudget(min, max string) *core.AttributeModel {
	attrs := map[string][]core.AttributeCandidate{}
	if min != "" {
		attrs[core.AttrBudgetMin] = []core.AttributeCandidate{{Value: min, Confidence: 1.0}}
	}
	if max != "" {
		attrs[core.AttrBudgetMax] = []core.AttributeCandidate{{Value: max, Confidence: 1.0}}
	}
	return core.NewAttributeModel().Merge(attrs)
}

func priceItem(id string, price float64) *core.Item {
	it := core.NewItem(id)
	it.Price = price
	return it
}

func TestBudgetFilter_ShouldFilter(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
		price    float64
		want     bool
	}{
		{name: "no bounds keeps everything", price: 999, want: false},
		{name: "within max kept", max: "100", price: 80, want: false},
		{name: "at max boundary kept", max: "100", price: 100, want: false},
		{name: "above max filtered", max: "100", price: 100.01, want: true},
		{name: "below min filtered", min: "50", price: 40, want: true},
		{name: "at min boundary kept", min: "50", price: 50, want: false},
		{name: "inside both bounds kept", min: "50", max: "150", price: 100, want: false},
		{name: "contradictory bounds filter everything", min: "100", max: "50", price: 75, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &BudgetFilter{}
			rctx := &core.RecommendContext{Model: modelWithBudget(tt.min, tt.max)}
			got, err := f.ShouldFilter(context.Background(), rctx, priceItem("x", tt.price))
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(price=%v, %s) = %v, want %v", tt.price, tt.min+"/"+tt.max, got, tt.want)
			}
		})
	}
}

// 预算扩宽只能放行更多物品，绝不淘汰已放行的物品。
func TestBudgetFilter_Monotonicity(t *testing.T) {
	ctx := context.Background()
	items := []*core.Item{
		priceItem("a", 20), priceItem("b", 60), priceItem("c", 110), priceItem("d", 180),
	}

	kept := func(max string) map[string]bool {
		f := &BudgetFilter{}
		rctx := &core.RecommendContext{Model: modelWithBudget("", max)}
		out := map[string]bool{}
		for _, it := range items {
			drop, err := f.ShouldFilter(ctx, rctx, it)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if !drop {
				out[it.ID] = true
			}
		}
		return out
	}

	narrow := kept("100")
	wide := kept("200")
	for id := range narrow {
		if !wide[id] {
			t.Errorf("widening budget dropped previously kept item %s", id)
		}
	}
	if len(wide) <= len(narrow) {
		t.Errorf("widening budget should admit more items: narrow=%d wide=%d", len(narrow), len(wide))
	}
}

func TestFilterNode_Process(t *testing.T) {
	node := &FilterNode{Filters: []Filter{&BudgetFilter{}}}
	rctx := &core.RecommendContext{Model: modelWithBudget("", "100")}

	in := []*core.Item{priceItem("a", 40), priceItem("b", 140), priceItem("c", 90)}
	out, err := node.Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantIDs := []string{"a", "c"}
	if len(out) != len(wantIDs) {
		t.Fatalf("Process kept %d items, want %d", len(out), len(wantIDs))
	}
	for i, id := range wantIDs {
		if out[i].ID != id {
			t.Errorf("out[%d].ID = %s, want %s (order must be preserved)", i, out[i].ID, id)
		}
	}
}

func TestRuleFilter_ShouldFilter(t *testing.T) {
	ctx := context.Background()

	dress := core.NewItem("d1")
	dress.Price = 80
	dress.Attrs[core.AttrCategory] = "dress"

	pants := core.NewItem("p1")
	pants.Price = 90
	pants.Attrs[core.AttrCategory] = "pants"

	tests := []struct {
		name string
		expr string
		item *core.Item
		want bool
	}{
		{name: "expression true keeps item", expr: `item.attrs.category != "pants"`, item: dress, want: false},
		{name: "expression false filters item", expr: `item.attrs.category != "pants"`, item: pants, want: true},
		{name: "price comparison", expr: `item.price < 85.0`, item: pants, want: true},
		{name: "empty expression keeps everything", expr: "", item: pants, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RuleFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(ctx, &core.RecommendContext{}, tt.item)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}
