package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/pkg/vectormath"
)

// MemoryVectorIndex 是内存实现的物品向量索引。
//
// 特点：
//   - 线程安全：目录预热阶段并发写入，之后查询阶段并发只读
//   - Search 为暴力余弦扫描，目录规模（数千件商品）下足够快
type MemoryVectorIndex struct {
	mu      sync.RWMutex
	vectors map[string][]float64
	order   []string // 插入序，保证 Search 同分结果可复现
}

// NewMemoryVectorIndex 创建内存向量索引。
func NewMemoryVectorIndex() *MemoryVectorIndex {
	return &MemoryVectorIndex{
		vectors: make(map[string][]float64),
	}
}

func (m *MemoryVectorIndex) Put(_ context.Context, id string, vec []float64) error {
	if id == "" || len(vec) == 0 {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector: empty id or vector")
	}
	cp := make([]float64, len(vec))
	copy(cp, vec)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vectors[id]; !ok {
		m.order = append(m.order, id)
	}
	m.vectors[id] = cp
	return nil
}

func (m *MemoryVectorIndex) Get(_ context.Context, id string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vec, ok := m.vectors[id]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return vec, nil
}

func (m *MemoryVectorIndex) Search(_ context.Context, vec []float64, topK int) ([]core.VectorMatch, error) {
	if topK <= 0 {
		topK = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]core.VectorMatch, 0, len(m.order))
	for _, id := range m.order {
		matches = append(matches, core.VectorMatch{
			ID:    id,
			Score: vectormath.Cosine(vec, m.vectors[id]),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

var _ core.VectorIndex = (*MemoryVectorIndex)(nil)
