package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pkg/conv"
)

// LLMExtractor 通过对话补全实现 core.Extractor。
//
// 输入是完整会话历史 + 当前已提交模型（作为提示词上下文，
// 抽取器负责结转仍然成立的属性）；输出做宽松的形状校验：
// 非列表的属性、非对象的候选、未知属性名一律忽略，绝不因为
// 模型输出不规整让会话中断。
type LLMExtractor struct {
	Client ChatClient
}

var _ core.Extractor = (*LLMExtractor)(nil)

func (x *LLMExtractor) Extract(
	ctx context.Context,
	history []core.Turn,
	model *core.AttributeModel,
) (*core.Extraction, error) {
	if x.Client == nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "extractor: chat client is required")
	}

	current := "{}"
	if model != nil {
		if data, err := json.Marshal(model); err == nil {
			current = string(data)
		}
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{
		Role:    "system",
		Content: extractionPromptHeader + current + extractionPromptExample,
	})
	for _, turn := range history {
		role := "user"
		if turn.Role == core.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, ChatMessage{Role: role, Content: turn.Text})
	}

	raw, err := x.Client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("extract attributes: %w", err)
	}

	return parseExtraction(raw), nil
}

// parseExtraction 宽松解析抽取输出。解析失败返回空抽取而不是错误：
// 形状不对等价于"这一轮什么也没抽到"。
func parseExtraction(raw string) *core.Extraction {
	out := &core.Extraction{
		Attributes: make(map[string][]core.AttributeCandidate),
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return out
	}

	if follow, ok := payload["follow_up"].(string); ok {
		out.FollowUp = strings.TrimSpace(follow)
	}

	attrs, ok := payload["attributes"].(map[string]any)
	if !ok {
		return out
	}
	for name, v := range attrs {
		if !core.IsKnownAttribute(name) {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			value, ok := obj["value"].(string)
			if !ok || strings.TrimSpace(value) == "" {
				continue
			}
			confidence, _ := conv.ToFloat64(obj["confidence"])
			out.Attributes[name] = append(out.Attributes[name], core.AttributeCandidate{
				Value:      strings.TrimSpace(value),
				Confidence: confidence,
			})
		}
	}
	return out
}

// stripFences 去掉模型偶尔包裹的 markdown 代码块。
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
