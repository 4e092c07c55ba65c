package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rushteam/vibekit/core"
)

// LLMJustifier 通过对话补全实现 core.Justifier。
//
// 输出与请求结果等长、同序；模型少给或给出非法条目时对应位置
// 留空，由会话层逐条回退到模板化理由——回退绝不阻塞推荐交付。
type LLMJustifier struct {
	Client ChatClient
}

var _ core.Justifier = (*LLMJustifier)(nil)

func (j *LLMJustifier) Justify(ctx context.Context, req *core.JustifyRequest) ([]string, error) {
	if j.Client == nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "justifier: chat client is required")
	}
	if req == nil || len(req.Results) == 0 {
		return nil, nil
	}

	userMsg, err := j.buildUserMessage(req)
	if err != nil {
		return nil, err
	}

	raw, err := j.Client.Chat(ctx, []ChatMessage{
		{Role: "system", Content: justificationPrompt},
		{Role: "user", Content: userMsg},
	})
	if err != nil {
		return nil, fmt.Errorf("generate justifications: %w", err)
	}

	return parseJustifications(raw, len(req.Results)), nil
}

func (j *LLMJustifier) buildUserMessage(req *core.JustifyRequest) (string, error) {
	userTurns := make([]string, 0, len(req.History))
	for _, turn := range req.History {
		if turn.Role == core.RoleUser {
			userTurns = append(userTurns, turn.Text)
		}
	}

	type productInfo struct {
		Number            int      `json:"number"`
		Name              string   `json:"name"`
		Price             float64  `json:"price"`
		MatchScore        float64  `json:"match_score"`
		MatchedAttributes []string `json:"matched_attributes"`
		Reasoning         string   `json:"reasoning"`
	}
	products := make([]productInfo, 0, len(req.Results))
	for i, res := range req.Results {
		products = append(products, productInfo{
			Number:            i + 1,
			Name:              res.ItemName,
			Price:             res.Price,
			MatchScore:        res.Score,
			MatchedAttributes: res.MatchedAttributes,
			Reasoning:         res.Reasoning,
		})
	}

	payload := map[string]any{
		"conversation_history": userTurns,
		"style_preferences":    req.Model,
		"products_to_justify":  products,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal justify request: %w", err)
	}
	return string(data), nil
}

// parseJustifications 宽松解析理由输出，返回与结果等长的切片，
// 缺失或非法的条目留空。
func parseJustifications(raw string, n int) []string {
	out := make([]string, n)

	var payload struct {
		Products []struct {
			Justification string `json:"justification"`
		} `json:"products"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return out
	}

	for i, p := range payload.Products {
		if i >= n {
			break
		}
		out[i] = strings.TrimSpace(p.Justification)
	}
	return out
}
