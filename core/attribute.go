package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// 属性词表是封闭的：抽取器返回的未知属性名一律忽略。
// 顺序即规范序（canonical order），AsText 与物品文本都按此序拼接，
// 保证相同模型永远生成相同的查询文本。
const (
	AttrCategory     = "category"
	AttrSizes        = "available_sizes"
	AttrFit          = "fit"
	AttrFabric       = "fabric"
	AttrSleeveLength = "sleeve_length"
	AttrColorOrPrint = "color_or_print"
	AttrOccasion     = "occasion"
	AttrNeckline     = "neckline"
	AttrLength       = "length"
	AttrPantType     = "pant_type"
	AttrBudgetMin    = "budget_min"
	AttrBudgetMax    = "budget_max"
)

// AttributeOrder 是属性的规范序。
var AttributeOrder = []string{
	AttrCategory,
	AttrSizes,
	AttrFit,
	AttrFabric,
	AttrSleeveLength,
	AttrColorOrPrint,
	AttrOccasion,
	AttrNeckline,
	AttrLength,
	AttrPantType,
	AttrBudgetMin,
	AttrBudgetMax,
}

// DescriptiveAttributes 是参与文本匹配的描述性属性（不含预算）。
var DescriptiveAttributes = []string{
	AttrCategory,
	AttrSizes,
	AttrFit,
	AttrFabric,
	AttrSleeveLength,
	AttrColorOrPrint,
	AttrOccasion,
	AttrNeckline,
	AttrLength,
	AttrPantType,
}

// DefaultAcceptThreshold 是候选进入已提交模型的置信度门槛。
// 低于门槛的候选可以驱动追问，但绝不参与打分。可按实例调整。
const DefaultAcceptThreshold = 0.7

// IsKnownAttribute 判断属性名是否在封闭词表中。
func IsKnownAttribute(name string) bool {
	for _, a := range AttributeOrder {
		if a == name {
			return true
		}
	}
	return false
}

// AttributeCandidate 是一个属性取值候选：值 + 抽取置信度。创建后不可变。
type AttributeCandidate struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"` // [0, 1]
}

// AttributeModel 按属性名持有有序的候选列表，是会话累积的用户偏好画像。
//
// 不变式：
//   - 同一属性下候选值唯一（按 Value 去重，置信度 last-write-wins）
//   - 低于接受门槛的候选不会出现在模型中
//   - 属性遍历顺序为规范序，候选顺序为插入序
//
// 所有修改操作都是纯函数（返回新模型），替换还是合并由会话层决策。
type AttributeModel struct {
	threshold float64
	attrs     map[string][]AttributeCandidate
}

// NewAttributeModel 创建空模型，使用默认接受门槛。
func NewAttributeModel() *AttributeModel {
	return NewAttributeModelWithThreshold(DefaultAcceptThreshold)
}

// NewAttributeModelWithThreshold 创建空模型并指定接受门槛。
// threshold <= 0 时回退到 DefaultAcceptThreshold。
func NewAttributeModelWithThreshold(threshold float64) *AttributeModel {
	if threshold <= 0 {
		threshold = DefaultAcceptThreshold
	}
	return &AttributeModel{
		threshold: threshold,
		attrs:     make(map[string][]AttributeCandidate),
	}
}

// AcceptThreshold 返回当前接受门槛。
func (m *AttributeModel) AcceptThreshold() float64 {
	return m.threshold
}

// Merge 将一批抽取结果并入模型，返回新模型（不修改接收者）。
//
// 规则：
//   - 未知属性名、空值候选直接忽略（抽取器输出只做宽松校验）
//   - 置信度低于门槛的候选丢弃
//   - 同值候选置信度 last-write-wins
//   - 其余保持插入序：已有候选在前，新候选按 incoming 顺序追加
func (m *AttributeModel) Merge(incoming map[string][]AttributeCandidate) *AttributeModel {
	out := m.Clone()
	for _, name := range AttributeOrder {
		cands, ok := incoming[name]
		if !ok {
			continue
		}
		for _, c := range cands {
			v := strings.TrimSpace(c.Value)
			if v == "" {
				continue
			}
			conf := clamp01(c.Confidence)
			if conf < out.threshold {
				continue
			}
			out.put(name, AttributeCandidate{Value: v, Confidence: conf})
		}
	}
	return out
}

func (m *AttributeModel) put(name string, c AttributeCandidate) {
	list := m.attrs[name]
	for i, old := range list {
		if old.Value == c.Value {
			list[i].Confidence = c.Confidence
			return
		}
	}
	m.attrs[name] = append(list, c)
}

// Candidates 返回某属性的候选列表（副本，调用方可随意持有）。
func (m *AttributeModel) Candidates(name string) []AttributeCandidate {
	list, ok := m.attrs[name]
	if !ok {
		return nil
	}
	out := make([]AttributeCandidate, len(list))
	copy(out, list)
	return out
}

// Attributes 按规范序返回模型中实际存在的属性名。
func (m *AttributeModel) Attributes() []string {
	out := make([]string, 0, len(m.attrs))
	for _, name := range AttributeOrder {
		if len(m.attrs[name]) > 0 {
			out = append(out, name)
		}
	}
	return out
}

// MaxConfidence 返回某属性候选中的最高置信度。
func (m *AttributeModel) MaxConfidence(name string) (float64, bool) {
	list := m.attrs[name]
	if len(list) == 0 {
		return 0, false
	}
	max := list[0].Confidence
	for _, c := range list[1:] {
		if c.Confidence > max {
			max = c.Confidence
		}
	}
	return max, true
}

// Empty 判断模型是否没有任何属性。
func (m *AttributeModel) Empty() bool {
	for _, list := range m.attrs {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

// AsText 将模型序列化为查询文本，作为嵌入原语的输入。
// 格式："attr1: v1, v2; attr2: v3"，属性按规范序、忽略置信度。
// 相等的模型永远得到相等的文本。
func (m *AttributeModel) AsText() string {
	var b strings.Builder
	for _, name := range AttributeOrder {
		list := m.attrs[name]
		if len(list) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		for i, c := range list {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Value)
		}
	}
	return b.String()
}

// Numeric 提取属性首个可解析为非负数字的候选值。
// 解析失败或属性缺失返回 (0, false)：缺失表示"无约束"，绝不能当作 0。
func (m *AttributeModel) Numeric(name string) (float64, bool) {
	for _, c := range m.attrs[name] {
		v := strings.TrimSpace(strings.TrimPrefix(c.Value, "$"))
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			continue
		}
		return n, true
	}
	return 0, false
}

// Clone 深拷贝模型。
func (m *AttributeModel) Clone() *AttributeModel {
	out := NewAttributeModelWithThreshold(m.threshold)
	for name, list := range m.attrs {
		cp := make([]AttributeCandidate, len(list))
		copy(cp, list)
		out.attrs[name] = cp
	}
	return out
}

// MarshalJSON 序列化为属性名到候选列表的映射。
// 既用于会话快照，也作为抽取器提示词里的"已生成属性"上下文。
func (m *AttributeModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.attrs)
}

// UnmarshalJSON 从快照恢复候选（候选已提交过门槛，原样恢复不再过滤）。
// 接受门槛不随快照走，由调用方在 NewAttributeModelWithThreshold 指定。
func (m *AttributeModel) UnmarshalJSON(data []byte) error {
	var attrs map[string][]AttributeCandidate
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}
	if m.threshold <= 0 {
		m.threshold = DefaultAcceptThreshold
	}
	m.attrs = make(map[string][]AttributeCandidate, len(attrs))
	for name, list := range attrs {
		if !IsKnownAttribute(name) {
			continue
		}
		for _, c := range list {
			if strings.TrimSpace(c.Value) == "" {
				continue
			}
			m.put(name, c)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
