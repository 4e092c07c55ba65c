package core

import (
	"strings"

	"github.com/rushteam/vibekit/pkg/utils"
)

// Item 是推荐链路中的统一承载结构：商品目录字段、分数、标签。
// 目录快照中的 Item 只读共享；进入一次查询前先 Clone，
// Score/Labels 只在查询私有的副本上修改。
type Item struct {
	ID          string
	Name        string
	Description string
	Price       float64

	// Attrs 是描述性属性，键来自封闭词表（AttributeOrder），每个属性至多一个值。
	Attrs map[string]string

	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Attrs:  make(map[string]string),
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Text 按规范属性序拼接物品文本，与 AttributeModel.AsText 共用同一词表与格式，
// 让共享的属性词汇驱动嵌入比较，而不是偶然的措辞。
// 名称与描述追加在末尾：没有任何描述性属性的物品仍然可以凭文本参与打分。
func (it *Item) Text() string {
	var b strings.Builder
	for _, name := range DescriptiveAttributes {
		v := it.Attrs[name]
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(v)
	}
	if it.Name != "" {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString("name: ")
		b.WriteString(it.Name)
	}
	if it.Description != "" {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString("description: ")
		b.WriteString(it.Description)
	}
	return b.String()
}

// Clone 返回查询私有副本。Attrs 浅拷贝即可（目录加载后不再修改），
// Score/Labels/Meta 必须独立。
func (it *Item) Clone() *Item {
	cp := &Item{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Attrs:       it.Attrs,
		Score:       it.Score,
		Meta:        make(map[string]any, len(it.Meta)),
		Labels:      make(map[string]utils.Label, len(it.Labels)),
	}
	for k, v := range it.Meta {
		cp.Meta[k] = v
	}
	for k, v := range it.Labels {
		cp.Labels[k] = v
	}
	return cp
}
