// Package vectormath 提供向量相似度与归一化的基础运算，
// 供排序节点与内存向量索引共用。
package vectormath

import "math"

// Cosine 计算两个向量的余弦相似度，值域 [-1, 1]。
// 维度不一致或任一向量为零向量时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize 将向量原地归一化为单位向量；零向量保持不变。
func Normalize(v []float64) {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
}
