// Package engine 把预算过滤、相似度排序、阈值截断组装成推荐引擎。
//
// 两段式过滤是有意为之：预算是二元的用户约束，必须硬切、绝不放松；
// 相关性是连续的，阈值只是质量线。空结果是显式的结果变体
// （core.NoResultsError / core.NoResultsInBudgetError），调用方必须处理。
package engine

import (
	"context"

	"github.com/rushteam/vibekit/catalog"
	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/filter"
	"github.com/rushteam/vibekit/rank"
	"github.com/rushteam/vibekit/rerank"
)

const (
	// DefaultMinScore 是相关性阈值：score <= 阈值的结果丢弃。
	DefaultMinScore = 0.3

	// DefaultMaxResults 是单次查询返回的结果上限。
	DefaultMaxResults = 10
)

// Engine 对整个目录执行一次推荐查询，返回有序、阈值过滤、截断后的结果。
// 目录与向量索引只读共享，Engine 可跨会话并发使用。
type Engine struct {
	catalog *catalog.Catalog
	scorer  *rank.Scorer

	minScore       float64
	maxResults     int
	candidateLimit int
	maxConcurrent  int
}

// Option 配置 Engine。
type Option func(*Engine)

// WithMinScore 设置相关性阈值。
func WithMinScore(v float64) Option {
	return func(e *Engine) { e.minScore = v }
}

// WithMaxResults 设置结果上限。
func WithMaxResults(n int) Option {
	return func(e *Engine) { e.maxResults = n }
}

// WithCandidateLimit 启用向量索引粗筛：打分前先按余弦相似度
// 取 TopK 候选，其余跳过。大目录下的性能选项，默认关闭（全量打分）。
// 需要 Scorer 配置 Index 且目录已 Warmup。
func WithCandidateLimit(topK int) Option {
	return func(e *Engine) { e.candidateLimit = topK }
}

// WithMaxConcurrent 设置排序阶段嵌入调用的并发上限。
func WithMaxConcurrent(n int) Option {
	return func(e *Engine) { e.maxConcurrent = n }
}

// New 创建推荐引擎。
func New(cat *catalog.Catalog, scorer *rank.Scorer, opts ...Option) *Engine {
	e := &Engine{
		catalog:    cat,
		scorer:     scorer,
		minScore:   DefaultMinScore,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Find 执行一次推荐查询。
//
// 流程：
//  1. 预算硬切。矛盾约束或预算内无货 → NoResultsInBudgetError（携带边界）；
//     无预算约束但目录为空 → NoResultsError
//  2. 置信度加权相似度打分，稳定降序（同分保持目录序，两次运行结果一致）
//  3. 阈值截断，剩余为空 → NoResultsError（预算命中但风格全不相关时宁可空手）
//  4. 截取前 maxResults 条
func (e *Engine) Find(ctx context.Context, rctx *core.RecommendContext) ([]*core.MatchResult, error) {
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}
	if rctx.Model == nil {
		rctx.Model = core.NewAttributeModel()
	}

	bounds := core.ResolveBudget(rctx.Model)
	if bounds.Contradictory() {
		return nil, &core.NoResultsInBudgetError{Bounds: bounds}
	}

	items := e.catalog.Items()

	budgetNode := &filter.FilterNode{Filters: []filter.Filter{&filter.BudgetFilter{}}}
	items, err := budgetNode.Process(ctx, rctx, items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		if bounds.Constrained() {
			return nil, &core.NoResultsInBudgetError{Bounds: bounds}
		}
		return nil, &core.NoResultsError{}
	}

	if e.candidateLimit > 0 && e.scorer.Index != nil {
		items, err = e.shortlist(ctx, rctx, items)
		if err != nil {
			return nil, err
		}
	}

	rankNode := &rank.SimilarityNode{Scorer: e.scorer, MaxConcurrent: e.maxConcurrent}
	items, err = rankNode.Process(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	minScoreNode := &rerank.MinScoreNode{MinScore: e.minScore}
	items, _ = minScoreNode.Process(ctx, rctx, items)
	if len(items) == 0 {
		return nil, &core.NoResultsError{}
	}

	topNNode := &rerank.TopNNode{N: e.maxResults}
	items, _ = topNNode.Process(ctx, rctx, items)

	return e.collect(items), nil
}

// shortlist 用向量索引做候选粗筛，保持目录序以维持稳定排序语义。
func (e *Engine) shortlist(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	queryVec := rctx.QueryVector
	if queryVec == nil {
		var err error
		queryVec, err = e.scorer.QueryVector(ctx, rctx.Model)
		if err != nil {
			return nil, err
		}
		rctx.QueryVector = queryVec
	}

	matches, err := e.scorer.Index.Search(ctx, queryVec, e.candidateLimit)
	if err != nil {
		// 索引不可用时退化为全量打分，粗筛只是性能优化
		return items, nil
	}

	keep := make(map[string]bool, len(matches))
	for _, m := range matches {
		keep[m.ID] = true
	}
	out := make([]*core.Item, 0, len(matches))
	for _, it := range items {
		if keep[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

// collect 从排好序的物品组装 MatchResult。
func (e *Engine) collect(items []*core.Item) []*core.MatchResult {
	out := make([]*core.MatchResult, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		res := &core.MatchResult{
			ItemID:   it.ID,
			ItemName: it.Name,
			Price:    it.Price,
			Score:    it.Score,
		}
		if bd, ok := it.Meta[rank.MetaBreakdown].(*rank.ItemBreakdown); ok {
			res.MatchedAttributes = bd.Matched
			res.Breakdown = bd.Confidence
			res.Reasoning = bd.Reasoning
		}
		out = append(out, res)
	}
	return out
}
