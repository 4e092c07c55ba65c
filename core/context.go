package core

import "github.com/rushteam/vibekit/pkg/utils"

// RecommendContext 承载一次查询的会话信息，贯穿整个 Pipeline 透传。
// 每个会话独占自己的 Context 与模型；目录与向量索引跨会话只读共享。
type RecommendContext struct {
	// SessionID 标识会话，用于会话状态存取与观测。
	SessionID string

	// Scene 标识业务场景（如 "chat"、"search"）。
	Scene string

	// Model 是当前已提交的属性模型（查询侧输入）。
	Model *AttributeModel

	// QueryVector 是 Model.AsText() 的嵌入向量。
	// 引擎在排序阶段前计算一次，避免每个物品重复嵌入查询文本。
	QueryVector []float64

	// Labels 是会话级标签，可驱动 Pipeline 行为（如跳过多样性重排）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数：min_score、max_results 覆盖等。
	Params map[string]any
}

// PutLabel 写入会话级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取会话级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
