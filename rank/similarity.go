package rank

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pkg/vectormath"
)

// Scorer 把语义相似度与抽取可信度耦合成单一分数：
//
//	score = cosine(embed(model 文本), embed(item 文本)) × weighted_confidence
//
// 完美命中一个低置信度猜测的物品，不应压过较好命中高置信度陈述的物品。
type Scorer struct {
	// Embedder 是嵌入原语（必填）。
	Embedder core.Embedder

	// Index 缓存物品向量（可选）。命中则跳过嵌入调用；
	// 未命中时计算后回填，目录预热后排序阶段零嵌入调用。
	Index core.VectorIndex

	// Weights 属性重要度表，nil 使用 DefaultImportance。
	Weights map[string]float64
}

// ItemBreakdown 是单个物品的打分明细，随物品 Meta 透传给引擎组装 MatchResult。
type ItemBreakdown struct {
	Similarity         float64
	WeightedConfidence float64
	Matched            []string
	Confidence         map[string]float64
	Reasoning          string
}

// MetaBreakdown 是 ItemBreakdown 在 item.Meta 中的键。
const MetaBreakdown = "rank.breakdown"

// QueryVector 计算模型查询文本的嵌入向量。
func (s *Scorer) QueryVector(ctx context.Context, model *core.AttributeModel) ([]float64, error) {
	text := ""
	if model != nil {
		text = model.AsText()
	}
	vec, err := s.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vec, nil
}

// ItemVector 取回或计算物品向量。
func (s *Scorer) ItemVector(ctx context.Context, item *core.Item) ([]float64, error) {
	if s.Index != nil {
		if vec, err := s.Index.Get(ctx, item.ID); err == nil {
			return vec, nil
		}
	}
	vec, err := s.Embedder.Embed(ctx, item.Text())
	if err != nil {
		return nil, fmt.Errorf("embed item %s: %w", item.ID, err)
	}
	if s.Index != nil {
		// 回填失败不致命，下次重算即可
		_ = s.Index.Put(ctx, item.ID, vec)
	}
	return vec, nil
}

// Score 计算单个物品的明细。queryVec 与 weightedConf 对一次查询是常量，
// 由调用方计算一次后复用。
func (s *Scorer) Score(
	ctx context.Context,
	model *core.AttributeModel,
	queryVec []float64,
	weightedConf float64,
	item *core.Item,
) (*ItemBreakdown, error) {
	itemVec, err := s.ItemVector(ctx, item)
	if err != nil {
		return nil, err
	}

	bd := &ItemBreakdown{
		Similarity:         vectormath.Cosine(queryVec, itemVec),
		WeightedConfidence: weightedConf,
		Confidence:         make(map[string]float64),
	}

	if model != nil {
		for _, name := range model.Attributes() {
			if conf, ok := model.MaxConfidence(name); ok {
				bd.Confidence[name] = conf
			}
			if item.Attrs[name] != "" {
				bd.Matched = append(bd.Matched, name)
			}
		}
	}

	bd.Reasoning = s.reasoning(bd)
	return bd, nil
}

// reasoning 生成可检视的打分说明：相似度 + 按置信带分组的属性。
func (s *Scorer) reasoning(bd *ItemBreakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "embedding similarity %.3f", bd.Similarity)
	if len(bd.Confidence) > 0 {
		fmt.Fprintf(&b, ", weighted confidence %.2f", bd.WeightedConfidence)
	}

	bands := map[string][]string{}
	for _, name := range core.AttributeOrder {
		conf, ok := bd.Confidence[name]
		if !ok {
			continue
		}
		band := Band(conf)
		bands[band] = append(bands[band], name)
	}
	for _, band := range []string{BandHigh, BandMedium, BandLow} {
		if names := bands[band]; len(names) > 0 {
			fmt.Fprintf(&b, "; %s confidence: %s", band, strings.Join(names, ", "))
		}
	}
	if len(bd.Matched) > 0 {
		fmt.Fprintf(&b, "; matched: %s", strings.Join(bd.Matched, ", "))
	}
	return b.String()
}
