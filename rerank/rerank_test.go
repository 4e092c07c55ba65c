package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/vibekit/core"
)

func scored(id string, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func ids(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestTopNNode(t *testing.T) {
	items := []*core.Item{scored("a", 0.9), scored("b", 0.8), scored("c", 0.7)}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "truncates to n", n: 2, want: []string{"a", "b"}},
		{name: "n larger than input", n: 10, want: []string{"a", "b", "c"}},
		{name: "zero means no truncation", n: 0, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			got := ids(out)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestMinScoreNode(t *testing.T) {
	items := []*core.Item{
		scored("high", 0.9),
		scored("edge", 0.3),
		scored("low", 0.1),
	}
	node := &MinScoreNode{MinScore: 0.3}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// 阈值是严格大于：恰好等于阈值的物品剔除
	if len(out) != 1 || out[0].ID != "high" {
		t.Errorf("got %v, want [high]", ids(out))
	}
}

func TestDiversity(t *testing.T) {
	withCategory := func(id, category string) *core.Item {
		it := core.NewItem(id)
		it.Attrs[core.AttrCategory] = category
		return it
	}

	items := []*core.Item{
		withCategory("d1", "dress"),
		withCategory("d2", "dress"),
		withCategory("t1", "top"),
		core.NewItem("unknown"), // 无属性值的物品直接保留
		withCategory("d3", "dress"),
	}

	node := &Diversity{}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := []string{"d1", "t1", "unknown"}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}
