// Package embed 提供嵌入原语的内存实现，用于测试/开发/原型。
// 平替网络嵌入服务：确定性、零依赖、同文本同向量。
package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/rushteam/vibekit/pkg/vectormath"
)

// HashingEmbedder 是特征哈希的词袋嵌入器：
// 分词后把每个 token 哈希进固定维度的桶，累加计数并归一化。
//
// 特点：
//   - 确定性：同文本永远得到同向量，测试可复现
//   - 共享词汇驱动相似度：属性词表一致的文本余弦相似度高
//   - 不具备真正的语义泛化，生产环境换 service.OpenAIClient 等网络实现
type HashingEmbedder struct {
	// Dim 向量维度，<=0 时取 256。
	Dim int
}

// NewHashingEmbedder 创建指定维度的哈希嵌入器。
func NewHashingEmbedder(dim int) *HashingEmbedder {
	return &HashingEmbedder{Dim: dim}
}

func (e *HashingEmbedder) Name() string { return "hashing" }

func (e *HashingEmbedder) Dimension() int {
	if e.Dim <= 0 {
		return 256
	}
	return e.Dim
}

func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	dim := e.Dimension()
	vec := make([]float64, dim)

	for _, tok := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		sum := h.Sum32()
		bucket := int(sum % uint32(dim))
		// 最高位决定符号，抵消哈希碰撞的系统性偏移
		if sum&0x80000000 != 0 {
			vec[bucket] -= 1
		} else {
			vec[bucket] += 1
		}
	}

	vectormath.Normalize(vec)
	return vec, nil
}

// tokenize 小写化并按非字母数字切分。
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
