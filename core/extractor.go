package core

import "context"

// 会话角色常量。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn 是会话中的一条消息。
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Extraction 是抽取器的单次输出：候选属性集 + 可选追问。
// FollowUp 为空表示抽取器认为信息已足够。
type Extraction struct {
	// Attributes 按属性名给出候选列表；低置信度候选也会出现在这里，
	// 由 AttributeModel.Merge 决定去留。
	Attributes map[string][]AttributeCandidate

	// FollowUp 是一条面向用户的澄清问题。
	FollowUp string
}

// Extractor 是自然语言属性抽取器的领域接口（LLM 调用，外部协作者）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（service）实现
//   - 输入是完整会话历史 + 当前已提交模型：抽取器负责结转仍然成立的属性
//   - 输出内容不确定，但形状必须可校验；实现方做宽松解析，
//     非法条目忽略而不是报错
//
// 实现：
//   - service.LLMExtractor 实现此接口
type Extractor interface {
	Extract(ctx context.Context, history []Turn, model *AttributeModel) (*Extraction, error)
}
