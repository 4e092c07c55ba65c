package core

// MatchResult 是一次推荐查询的单条结果。每次查询新建，构造后不再修改；
// 列表顺序即排名，排名有意义而身份无序。
type MatchResult struct {
	ItemID   string
	ItemName string
	Price    float64

	// Score 是置信度加权后的语义相似度。
	Score float64

	// MatchedAttributes 是模型与物品两侧都存在的属性名（规范序）。
	MatchedAttributes []string

	// Breakdown 记录每个模型属性的置信度（取保留候选中的最大值），用于解释。
	Breakdown map[string]float64

	// Reasoning 是可检视的打分说明（相似度、置信带），
	// 同时作为理由生成失败时的兜底素材。
	Reasoning string
}
