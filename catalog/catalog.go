// Package catalog 提供商品目录的加载与只读快照。
// 目录启动时加载一次，之后跨回合、跨会话只读共享——没有写入就不需要锁。
package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/vibekit/core"
)

// Catalog 是不可变的目录快照。插入序有意义：
// 排序阶段的同分物品按目录序稳定输出。
type Catalog struct {
	items []*core.Item
	byID  map[string]*core.Item
}

// New 从物品列表构建快照。重复 ID 保留首个，保持插入序。
func New(items []*core.Item) *Catalog {
	c := &Catalog{
		items: make([]*core.Item, 0, len(items)),
		byID:  make(map[string]*core.Item, len(items)),
	}
	for _, it := range items {
		if it == nil || it.ID == "" {
			continue
		}
		if _, ok := c.byID[it.ID]; ok {
			continue
		}
		c.byID[it.ID] = it
		c.items = append(c.items, it)
	}
	return c
}

// Len 返回目录大小。
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items 按目录序返回查询私有的物品副本。
// 快照本身永不修改，Score/Labels 的写入都发生在副本上。
func (c *Catalog) Items() []*core.Item {
	out := make([]*core.Item, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Get 按 ID 取物品副本。
func (c *Catalog) Get(id string) (*core.Item, bool) {
	it, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

// Warmup 预计算全目录的物品向量写入索引，之后排序阶段零嵌入调用。
// maxConcurrent <= 0 时取 8。
func (c *Catalog) Warmup(
	ctx context.Context,
	embedder core.Embedder,
	index core.VectorIndex,
	maxConcurrent int,
) error {
	if embedder == nil || index == nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: warmup requires embedder and index")
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrent)

	for _, it := range c.items {
		item := it
		eg.Go(func() error {
			vec, err := embedder.Embed(egCtx, item.Text())
			if err != nil {
				return err
			}
			return index.Put(egCtx, item.ID, vec)
		})
	}
	return eg.Wait()
}
