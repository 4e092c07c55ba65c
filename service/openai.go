package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pkg/vectormath"
)

// ChatMessage 是对话消息。
type ChatMessage struct {
	Role    string `json:"role"` // system / user / assistant
	Content string `json:"content"`
}

// ChatClient 是对话补全服务的抽象，LLMExtractor / LLMJustifier 依赖此接口，
// 测试中可用确定性实现替换。
type ChatClient interface {
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}

// OpenAIClient 是 OpenAI 兼容 API 的客户端（chat completions + embeddings）。
//
// 两个外部调用都是阻塞的网络操作：客户端内置有界超时与小规模
// 退避重试（仅针对瞬时故障），调用失败由上层降级，绝不让会话崩溃。
//
// 同时实现 core.Embedder，生产环境替换 embed.HashingEmbedder。
type OpenAIClient struct {
	// Endpoint API 根地址，默认 "https://api.openai.com/v1"。
	// 兼容任何实现同一协议的服务（本地推理网关等）。
	Endpoint string

	// APIKey 认证密钥。
	APIKey string

	// ChatModel 对话模型名称，默认 "gpt-4.1-mini"。
	ChatModel string

	// EmbedModel 嵌入模型名称，默认 "text-embedding-3-small"。
	EmbedModel string

	// EmbedDim 嵌入向量维度，默认 1536。
	EmbedDim int

	// Temperature 采样温度，默认 0.7。
	Temperature float64

	// Timeout 单次调用超时时间，默认 30s。
	Timeout time.Duration

	// MaxRetries 瞬时故障的最大重试次数，默认 2。
	MaxRetries int

	httpClient *http.Client
}

// OpenAIOption 客户端配置选项。
type OpenAIOption func(*OpenAIClient)

// WithEndpoint 设置 API 根地址。
func WithEndpoint(endpoint string) OpenAIOption {
	return func(c *OpenAIClient) { c.Endpoint = endpoint }
}

// WithChatModel 设置对话模型。
func WithChatModel(model string) OpenAIOption {
	return func(c *OpenAIClient) { c.ChatModel = model }
}

// WithEmbedModel 设置嵌入模型与维度。
func WithEmbedModel(model string, dim int) OpenAIOption {
	return func(c *OpenAIClient) {
		c.EmbedModel = model
		c.EmbedDim = dim
	}
}

// WithTemperature 设置采样温度。
func WithTemperature(t float64) OpenAIOption {
	return func(c *OpenAIClient) { c.Temperature = t }
}

// WithTimeout 设置超时时间。
func WithTimeout(timeout time.Duration) OpenAIOption {
	return func(c *OpenAIClient) { c.Timeout = timeout }
}

// WithMaxRetries 设置最大重试次数。
func WithMaxRetries(n int) OpenAIOption {
	return func(c *OpenAIClient) { c.MaxRetries = n }
}

// NewOpenAIClient 创建客户端。
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		Endpoint:    "https://api.openai.com/v1",
		APIKey:      apiKey,
		ChatModel:   "gpt-4.1-mini",
		EmbedModel:  "text-embedding-3-small",
		EmbedDim:    1536,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
		MaxRetries:  2,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = &http.Client{Timeout: c.Timeout}
	return c
}

func (c *OpenAIClient) Name() string { return "openai" }

// Dimension 实现 core.Embedder 接口。
func (c *OpenAIClient) Dimension() int { return c.EmbedDim }

// Chat 调用 chat completions，返回首个 choice 的文本。
func (c *OpenAIClient) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	body := map[string]any{
		"model":       c.ChatModel,
		"messages":    messages,
		"temperature": c.Temperature,
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, "openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed 实现 core.Embedder 接口。
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	body := map[string]any{
		"model": c.EmbedModel,
		"input": text,
	}

	var resp struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/embeddings", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, "openai: empty embedding data")
	}
	vec := resp.Data[0].Embedding
	vectormath.Normalize(vec)
	return vec, nil
}

// post 发送请求并解析响应，对瞬时故障（网络错误、429、5xx）做退避重试。
func (c *OpenAIClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 200 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(data, 200))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
				fmt.Sprintf("openai: status %d: %s", resp.StatusCode, truncate(data, 200)))
		}

		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return nil
	}
	return core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
		fmt.Sprintf("openai: %v", lastErr))
}

func truncate(data []byte, n int) string {
	if len(data) > n {
		data = data[:n]
	}
	return string(data)
}
