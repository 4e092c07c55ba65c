package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/vibekit/config"
	_ "github.com/rushteam/vibekit/config/builders"
	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pipeline"
)

const pipelineYAML = `pipeline:
  name: vibe-match
  nodes:
    - type: filter.budget
      config: {}
    - type: rank.similarity
      config:
        dim: 64
    - type: rerank.min_score
      config:
        min_score: -2
    - type: rerank.topn
      config:
        n: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestBuildPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.LoadFromYAML(writeConfig(t, pipelineYAML))
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(p.Nodes))
	}

	item := func(id string, price float64, category string) *core.Item {
		it := core.NewItem(id)
		it.Name = "item " + id
		it.Price = price
		it.Attrs[core.AttrCategory] = category
		return it
	}
	model := core.NewAttributeModel().Merge(map[string][]core.AttributeCandidate{
		core.AttrCategory:  {{Value: "dress", Confidence: 0.9}},
		core.AttrBudgetMax: {{Value: "100", Confidence: 1.0}},
	})

	out, err := p.Run(context.Background(),
		&core.RecommendContext{Model: model},
		[]*core.Item{
			item("a", 80, "dress"),
			item("b", 150, "dress"), // 超预算
			item("c", 60, "top"),
			item("d", 40, "dress"),
		})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 预算剔除 b，topn 截到 2
	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
	for _, it := range out {
		if it.ID == "b" {
			t.Errorf("over-budget item survived the pipeline")
		}
	}
}

func TestValidatePipelineConfig_UnknownType(t *testing.T) {
	cfg, err := pipeline.LoadFromYAML(writeConfig(t, `pipeline:
  name: broken
  nodes:
    - type: rank.quantum
      config: {}
`))
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("unknown node type should fail validation")
	}
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	want := map[string]bool{
		"filter":           false,
		"filter.budget":    false,
		"filter.rule":      false,
		"rank.similarity":  false,
		"rerank.topn":      false,
		"rerank.min_score": false,
		"rerank.diversity": false,
	}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("builtin type %s not registered", typ)
		}
	}
}
