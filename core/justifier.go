package core

import "context"

// JustifyRequest 是推荐理由生成的输入：TopK 结果 + 完整会话上下文。
type JustifyRequest struct {
	History []Turn
	Model   *AttributeModel
	Results []*MatchResult
}

// Justifier 是推荐理由生成器的领域接口（LLM 调用，外部协作者）。
//
// 约定：
//   - 返回与 Results 等长、同序的理由文本
//   - 输出残缺或调用失败时，会话层逐条回退到模板化理由，
//     回退路径绝不阻塞推荐结果的交付
//
// 实现：
//   - service.LLMJustifier 实现此接口
type Justifier interface {
	Justify(ctx context.Context, req *JustifyRequest) ([]string, error)
}
