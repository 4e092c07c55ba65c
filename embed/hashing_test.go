package embed

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/vibekit/pkg/vectormath"
)

func TestHashingEmbedder_Deterministic(t *testing.T) {
	e := NewHashingEmbedder(128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "category: dress; occasion: Party")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(ctx, "category: dress; occasion: Party")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same text produced different vectors at %d", i)
		}
	}
}

func TestHashingEmbedder_UnitNorm(t *testing.T) {
	e := NewHashingEmbedder(64)
	vec, err := e.Embed(context.Background(), "silk wrap midi dress")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("vector norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestHashingEmbedder_SharedVocabulary(t *testing.T) {
	e := NewHashingEmbedder(256)
	ctx := context.Background()

	query, _ := e.Embed(ctx, "category: dress; occasion: Party")
	near, _ := e.Embed(ctx, "category: dress; occasion: Party; name: Silk Party Dress")
	far, _ := e.Embed(ctx, "category: pants; occasion: Work; name: Tailored Trousers")

	simNear := vectormath.Cosine(query, near)
	simFar := vectormath.Cosine(query, far)
	if simNear <= simFar {
		t.Errorf("shared vocabulary should score higher: near=%v far=%v", simNear, simFar)
	}
}

func TestHashingEmbedder_EmptyText(t *testing.T) {
	e := NewHashingEmbedder(32)
	vec, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 32 {
		t.Fatalf("len = %d, want 32", len(vec))
	}
	for i, v := range vec {
		if v != 0 {
			t.Errorf("empty text should give zero vector, vec[%d]=%v", i, v)
		}
	}
}

func TestHashingEmbedder_DefaultDimension(t *testing.T) {
	e := NewHashingEmbedder(0)
	if e.Dimension() != 256 {
		t.Errorf("Dimension() = %d, want 256", e.Dimension())
	}
}
