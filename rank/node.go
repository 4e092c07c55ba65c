package rank

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pipeline"
	"github.com/rushteam/vibekit/pkg/utils"
)

// SimilarityNode 是排序 Node：对每个物品计算置信度加权相似度，
// 更新 item.Score 并按分数稳定降序排序（同分保持目录序，保证可复现）。
//
// - 写入 labels：rank_model / matched_attrs / confidence_band
// - 物品向量的嵌入调用按 MaxConcurrent 并发执行
type SimilarityNode struct {
	Scorer *Scorer

	// MaxConcurrent 嵌入调用的最大并发数，<=0 时取 8。
	MaxConcurrent int
}

func (n *SimilarityNode) Name() string        { return "rank.similarity" }
func (n *SimilarityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SimilarityNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	var model *core.AttributeModel
	if rctx != nil {
		model = rctx.Model
	}

	// 查询向量与加权置信度对整个候选集是常量，只算一次
	var queryVec []float64
	if rctx != nil {
		queryVec = rctx.QueryVector
	}
	if queryVec == nil {
		var err error
		queryVec, err = n.Scorer.QueryVector(ctx, model)
		if err != nil {
			return nil, err
		}
		if rctx != nil {
			rctx.QueryVector = queryVec
		}
	}
	weightedConf := WeightedConfidence(model, n.Scorer.Weights)

	maxConcurrent := n.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrent)

	for _, it := range items {
		item := it
		if item == nil {
			continue
		}
		eg.Go(func() error {
			bd, err := n.Scorer.Score(egCtx, model, queryVec, weightedConf, item)
			if err != nil {
				return err
			}
			item.Score = bd.Similarity * bd.WeightedConfidence
			item.Meta[MetaBreakdown] = bd
			item.PutLabel("rank_model", utils.Label{Value: "similarity", Source: "rank"})
			if len(bd.Matched) > 0 {
				item.PutLabel("matched_attrs", utils.Label{
					Value:  strings.Join(bd.Matched, "|"),
					Source: "rank",
				})
			}
			item.PutLabel("confidence_band", utils.Label{
				Value:  Band(bd.WeightedConfidence),
				Source: "rank",
			})
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}
