package rank

import (
	"math"
	"testing"

	"github.com/rushteam/vibekit/core"
)

func model(attrs map[string][]core.AttributeCandidate) *core.AttributeModel {
	return core.NewAttributeModel().Merge(attrs)
}

func TestWeightedConfidence(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string][]core.AttributeCandidate
		want  float64
	}{
		{
			name:  "empty model has no penalty",
			attrs: nil,
			want:  1.0,
		},
		{
			name: "single attribute returns its confidence",
			attrs: map[string][]core.AttributeCandidate{
				core.AttrCategory: {{Value: "dress", Confidence: 0.9}},
			},
			want: 0.9,
		},
		{
			name: "max confidence per attribute",
			attrs: map[string][]core.AttributeCandidate{
				core.AttrCategory: {
					{Value: "dress", Confidence: 0.7},
					{Value: "top", Confidence: 0.95},
				},
			},
			want: 0.95,
		},
		{
			name: "weighted mean across attributes",
			attrs: map[string][]core.AttributeCandidate{
				// occasion 1.5 × 0.8, category 1.3 × 0.9 → 2.37 / 2.8
				core.AttrOccasion: {{Value: "Party", Confidence: 0.8}},
				core.AttrCategory: {{Value: "dress", Confidence: 0.9}},
			},
			want: (1.5*0.8 + 1.3*0.9) / (1.5 + 1.3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedConfidence(model(tt.attrs), nil)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WeightedConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightedConfidence_CustomWeights(t *testing.T) {
	m := model(map[string][]core.AttributeCandidate{
		core.AttrCategory: {{Value: "dress", Confidence: 0.8}},
		core.AttrFabric:   {{Value: "silk", Confidence: 1.0}},
	})
	weights := map[string]float64{core.AttrCategory: 3.0, core.AttrFabric: 1.0}
	want := (3.0*0.8 + 1.0*1.0) / 4.0
	if got := WeightedConfidence(m, weights); math.Abs(got-want) > 1e-9 {
		t.Errorf("WeightedConfidence() = %v, want %v", got, want)
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		conf float64
		want string
	}{
		{0.95, BandHigh},
		{0.81, BandHigh},
		{0.8, BandMedium},
		{0.6, BandMedium},
		{0.5, BandLow},
		{0.2, BandLow},
	}
	for _, tt := range tests {
		if got := Band(tt.conf); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.conf, got, tt.want)
		}
	}
}
