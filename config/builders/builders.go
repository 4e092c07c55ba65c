// Package builders 在 init 中注册内置 Node 构建器，供配置驱动的 Pipeline 使用。
// 入口处需空白导入：import _ "github.com/rushteam/vibekit/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/vibekit/config"
	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/embed"
	"github.com/rushteam/vibekit/filter"
	"github.com/rushteam/vibekit/pipeline"
	"github.com/rushteam/vibekit/pkg/conv"
	"github.com/rushteam/vibekit/rank"
	"github.com/rushteam/vibekit/rerank"
	"github.com/rushteam/vibekit/store"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.budget", BuildBudgetFilterNode)
	config.Register("filter.rule", BuildRuleFilterNode)
	config.Register("rank.similarity", BuildSimilarityNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.min_score", BuildMinScoreNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 构建组合过滤 Node，filters 列表支持 budget/rule 两种类型。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "budget":
			filters = append(filters, budgetFilterFromConfig(filterMap))
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr not found")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

// BuildBudgetFilterNode 构建预算过滤 Node。
// min/max 缺省时每次请求从偏好模型解析预算边界。
func BuildBudgetFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &filter.FilterNode{
		Filters: []filter.Filter{budgetFilterFromConfig(cfg)},
	}, nil
}

func budgetFilterFromConfig(cfg map[string]interface{}) *filter.BudgetFilter {
	f := &filter.BudgetFilter{}
	var bounds core.BudgetBounds
	if v, ok := cfg["min"]; ok {
		if n, ok := conv.ToFloat64(v); ok {
			bounds.Min = n
			bounds.HasMin = true
		}
	}
	if v, ok := cfg["max"]; ok {
		if n, ok := conv.ToFloat64(v); ok {
			bounds.Max = n
			bounds.HasMax = true
		}
	}
	if bounds.Constrained() {
		f.Bounds = &bounds
	}
	return f
}

// BuildRuleFilterNode 构建 CEL 规则过滤 Node。
func BuildRuleFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return &filter.FilterNode{
		Filters: []filter.Filter{&filter.RuleFilter{Expr: expr}},
	}, nil
}

// BuildSimilarityNode 构建相似度排序 Node。
// 配置驱动场景下使用确定性的哈希嵌入与内存向量索引，
// 网络嵌入服务（service.OpenAIClient）需以代码方式组装。
func BuildSimilarityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	dim := conv.ConfigGetInt(cfg, "dim", 0)
	scorer := &rank.Scorer{
		Embedder: embed.NewHashingEmbedder(dim),
		Index:    store.NewMemoryVectorIndex(),
	}
	if weightsMap, ok := cfg["weights"].(map[string]interface{}); ok {
		weights := make(map[string]float64, len(weightsMap))
		for k, v := range weightsMap {
			if f, ok := conv.ToFloat64(v); ok {
				weights[k] = f
			}
		}
		scorer.Weights = weights
	}
	return &rank.SimilarityNode{
		Scorer:        scorer,
		MaxConcurrent: conv.ConfigGetInt(cfg, "max_concurrent", 0),
	}, nil
}

// BuildTopNNode 构建截断 Node。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt(cfg, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}
	return &rerank.TopNNode{N: n}, nil
}

// BuildMinScoreNode 构建相似度阈值 Node。
func BuildMinScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.MinScoreNode{
		MinScore: conv.ConfigGetFloat(cfg, "min_score", 0),
	}, nil
}

// BuildDiversityNode 构建多样性 Node，默认按 category 去重。
func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		AttrKey: conv.ConfigGet(cfg, "attr_key", core.AttrCategory),
	}, nil
}
