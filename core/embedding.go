package core

import "context"

// Embedder 是文本嵌入原语的领域接口：encode(text) → 定长向量。
// 相似度计算见 pkg/vectormath.Cosine。本仓库不重新设计该原语，
// 只约定维度固定、同文本同向量（实现方保证确定性或自带缓存）。
//
// 实现：
//   - embed.HashingEmbedder：确定性的内存实现，用于测试/开发/原型
//   - service.OpenAIClient：对接 OpenAI 兼容的 embeddings 端点
type Embedder interface {
	// Name 返回实现名称（用于观测）。
	Name() string

	// Embed 将文本编码为定长向量。
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension 返回向量维度。
	Dimension() int
}

// VectorMatch 是向量检索的单条命中。
type VectorMatch struct {
	ID    string
	Score float64
}

// VectorIndex 是物品向量索引的领域接口。
//
// 使用场景：
//   - 目录预热：启动时批量写入物品向量，之后只读共享
//   - 排序阶段按 ID 取回预计算向量，避免逐次嵌入
//   - 可选的候选粗筛（TopK 相似检索）
//
// 实现：
//   - store.MemoryVectorIndex 实现此接口
type VectorIndex interface {
	// Put 写入物品向量。
	Put(ctx context.Context, id string, vec []float64) error

	// Get 取回物品向量；不存在时返回 ErrStoreNotFound。
	Get(ctx context.Context, id string) ([]float64, error)

	// Search 返回与查询向量余弦相似度最高的 TopK 物品（降序）。
	Search(ctx context.Context, vec []float64, topK int) ([]VectorMatch, error)
}
