package rank

import "github.com/rushteam/vibekit/core"

// DefaultImportance 是属性重要度表：场合与类目主导匹配，
// 袖长/领口/衣长属于细节属性，权重压低。表外属性默认 1.0。
var DefaultImportance = map[string]float64{
	core.AttrOccasion:     1.5,
	core.AttrCategory:     1.3,
	core.AttrFit:          1.2,
	core.AttrColorOrPrint: 1.1,
	core.AttrFabric:       1.0,
	core.AttrBudgetMin:    1.0,
	core.AttrBudgetMax:    1.0,
	core.AttrSleeveLength: 0.8,
	core.AttrNeckline:     0.8,
	core.AttrLength:       0.8,
}

// WeightedConfidence 计算模型的加权平均置信度：
// 每个属性取保留候选中的最大置信度，按重要度加权平均。
// 空模型返回 1.0——没有可不确定的东西，就没有惩罚。
func WeightedConfidence(model *core.AttributeModel, weights map[string]float64) float64 {
	if model == nil || model.Empty() {
		return 1.0
	}
	if weights == nil {
		weights = DefaultImportance
	}

	var sum, wsum float64
	for _, name := range model.Attributes() {
		conf, ok := model.MaxConfidence(name)
		if !ok {
			continue
		}
		w, ok := weights[name]
		if !ok {
			w = 1.0
		}
		sum += w * conf
		wsum += w
	}
	if wsum == 0 {
		return 1.0
	}
	return sum / wsum
}

// 置信带边界：高 >0.8，中 (0.5, 0.8]，低 ≤0.5。
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Band 将置信度映射到置信带，用于解释文案。
func Band(conf float64) string {
	switch {
	case conf > 0.8:
		return BandHigh
	case conf > 0.5:
		return BandMedium
	default:
		return BandLow
	}
}
