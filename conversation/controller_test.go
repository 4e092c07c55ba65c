package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/vibekit/catalog"
	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/embed"
	"github.com/rushteam/vibekit/engine"
	"github.com/rushteam/vibekit/rank"
	"github.com/rushteam/vibekit/store"
)

// scriptedExtractor 按脚本依次返回抽取结果，用尽后重复最后一个。
type scriptedExtractor struct {
	script []*core.Extraction
	errs   []error
	calls  int
}

func (e *scriptedExtractor) Extract(
	_ context.Context,
	_ []core.Turn,
	_ *core.AttributeModel,
) (*core.Extraction, error) {
	i := e.calls
	e.calls++
	if i < len(e.errs) && e.errs[i] != nil {
		return nil, e.errs[i]
	}
	if len(e.script) == 0 {
		return &core.Extraction{}, nil
	}
	if i >= len(e.script) {
		i = len(e.script) - 1
	}
	return e.script[i], nil
}

type staticJustifier struct {
	out []string
	err error
}

func (j *staticJustifier) Justify(_ context.Context, req *core.JustifyRequest) ([]string, error) {
	if j.err != nil {
		return nil, j.err
	}
	return j.out, nil
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	item := func(id, name string, price float64, attrs map[string]string) *core.Item {
		it := core.NewItem(id)
		it.Name = name
		it.Price = price
		for k, v := range attrs {
			it.Attrs[k] = v
		}
		return it
	}
	cat := catalog.New([]*core.Item{
		item("D001", "Silk Party Dress", 80, map[string]string{
			core.AttrCategory: "dress", core.AttrOccasion: "Party",
		}),
		item("D002", "Linen Day Dress", 55, map[string]string{
			core.AttrCategory: "dress", core.AttrOccasion: "Vacation",
		}),
		item("T001", "Cotton Work Blouse", 40, map[string]string{
			core.AttrCategory: "top", core.AttrOccasion: "Work",
		}),
	})
	embedder := embed.NewHashingEmbedder(128)
	index := store.NewMemoryVectorIndex()
	if err := cat.Warmup(context.Background(), embedder, index, 0); err != nil {
		t.Fatalf("Warmup: %v", err)
	}
	return engine.New(cat,
		&rank.Scorer{Embedder: embedder, Index: index},
		engine.WithMinScore(-2),
	)
}

func extraction(attrs map[string][]core.AttributeCandidate, followUp string) *core.Extraction {
	return &core.Extraction{Attributes: attrs, FollowUp: followUp}
}

func dressAttrs(conf float64) map[string][]core.AttributeCandidate {
	return map[string][]core.AttributeCandidate{
		core.AttrCategory: {{Value: "dress", Confidence: conf}},
	}
}

func TestController_FollowUpThenRecommend(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(dressAttrs(0.9), "what occasion is this for?"),
		extraction(map[string][]core.AttributeCandidate{
			core.AttrCategory: {{Value: "dress", Confidence: 0.9}},
			core.AttrOccasion: {{Value: "Party", Confidence: 0.85}},
		}, ""),
	}}
	ctrl := NewController(ext, testEngine(t))
	ctx := context.Background()

	reply, err := ctrl.Process(ctx, "something cute for a party")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ctrl.State() != StateClarifying {
		t.Errorf("state = %s, want %s", ctrl.State(), StateClarifying)
	}
	if ctrl.FollowUps() != 1 {
		t.Errorf("FollowUps() = %d, want 1", ctrl.FollowUps())
	}
	if !strings.Contains(reply, "what occasion is this for?") {
		t.Errorf("reply should carry the follow-up question: %q", reply)
	}
	if !strings.Contains(reply, "something cute for a party") {
		t.Errorf("reply should echo the user text: %q", reply)
	}

	reply, err = ctrl.Process(ctx, "a party")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ctrl.State() != StateRecommending {
		t.Errorf("state = %s, want %s", ctrl.State(), StateRecommending)
	}
	if !strings.Contains(reply, "Here are my top picks for you:") {
		t.Errorf("reply should contain recommendations: %q", reply)
	}
	if !strings.Contains(reply, "compatibility score") {
		t.Errorf("reply should use template justification without a justifier: %q", reply)
	}
}

func TestController_FollowUpBudgetIsHardCap(t *testing.T) {
	// 抽取器每轮都想追问：第三轮必须强制推荐
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(dressAttrs(0.9), "question one?"),
		extraction(dressAttrs(0.9), "question two?"),
		extraction(dressAttrs(0.9), "question three?"),
	}}
	ctrl := NewController(ext, testEngine(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := ctrl.Process(ctx, "a dress"); err != nil {
			t.Fatalf("Process %d: %v", i, err)
		}
	}
	if ctrl.State() != StateClarifying || ctrl.FollowUps() != 2 {
		t.Fatalf("after 2 turns: state=%s followUps=%d", ctrl.State(), ctrl.FollowUps())
	}

	reply, err := ctrl.Process(ctx, "still not sure")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if ctrl.State() != StateExhausted {
		t.Errorf("state = %s, want %s", ctrl.State(), StateExhausted)
	}
	if ctrl.FollowUps() != 2 {
		t.Errorf("FollowUps() = %d, cap is 2", ctrl.FollowUps())
	}
	if !strings.Contains(reply, "Here are my top picks for you:") {
		t.Errorf("exhausted session must still recommend: %q", reply)
	}
}

func TestController_ExtractionFailureRecovered(t *testing.T) {
	ext := &scriptedExtractor{
		script: []*core.Extraction{nil, extraction(dressAttrs(0.9), "")},
		errs:   []error{errors.New("upstream busted"), nil},
	}
	ctrl := NewController(ext, testEngine(t))
	ctx := context.Background()

	// 第一轮抽取失败：按空抽取处理，会话继续（空模型直接推荐）
	reply, err := ctrl.Process(ctx, "hello")
	if err != nil {
		t.Fatalf("extraction failure must not surface: %v", err)
	}
	if reply == "" {
		t.Fatal("reply must not be empty after extraction failure")
	}
	if len(ctrl.History()) != 2 {
		t.Errorf("history = %d turns, want 2", len(ctrl.History()))
	}

	// 第二轮恢复正常
	if _, err := ctrl.Process(ctx, "a dress please"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := ctrl.Model().AsText(); got != "category: dress" {
		t.Errorf("model = %q, want %q", got, "category: dress")
	}
}

func TestController_NoResultsInBudgetMessage(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(map[string][]core.AttributeCandidate{
			core.AttrCategory:  {{Value: "dress", Confidence: 0.9}},
			core.AttrBudgetMax: {{Value: "10", Confidence: 1.0}},
		}, ""),
	}}
	ctrl := NewController(ext, testEngine(t))

	reply, err := ctrl.Process(context.Background(), "a dress under $10")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "under $10") {
		t.Errorf("budget message should render the bounds: %q", reply)
	}
	if !strings.Contains(reply, "adjust your budget") {
		t.Errorf("budget message should invite an adjustment: %q", reply)
	}
	if ctrl.State() != StateRecommending {
		t.Errorf("state = %s, want %s", ctrl.State(), StateRecommending)
	}
}

func TestController_PolicyMergeAccumulates(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(dressAttrs(0.9), ""),
		extraction(map[string][]core.AttributeCandidate{
			core.AttrOccasion: {{Value: "Party", Confidence: 0.85}},
		}, ""),
	}}
	ctrl := NewController(ext, testEngine(t), WithPolicy(PolicyMerge))
	ctx := context.Background()

	if _, err := ctrl.Process(ctx, "a dress"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := ctrl.Process(ctx, "for a party"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := ctrl.Model().AsText(); got != "category: dress; occasion: Party" {
		t.Errorf("merge policy should accumulate: %q", got)
	}
}

func TestController_PolicyReplaceRebuilds(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(dressAttrs(0.9), ""),
		extraction(map[string][]core.AttributeCandidate{
			core.AttrOccasion: {{Value: "Party", Confidence: 0.85}},
		}, ""),
	}}
	ctrl := NewController(ext, testEngine(t), WithPolicy(PolicyReplace))
	ctx := context.Background()

	if _, err := ctrl.Process(ctx, "a dress"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := ctrl.Process(ctx, "for a party"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	// replace 策略下旧属性由抽取器负责回传，这里没有回传，category 丢失
	if got := ctrl.Model().AsText(); got != "occasion: Party" {
		t.Errorf("replace policy should rebuild each turn: %q", got)
	}
}

func TestController_JustifierOutput(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{extraction(dressAttrs(0.9), "")}}
	ctrl := NewController(ext, testEngine(t),
		WithJustifier(&staticJustifier{out: []string{"Perfect for twirling.", "Effortless and airy."}}),
	)

	reply, err := ctrl.Process(context.Background(), "a dress")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "Perfect for twirling.") {
		t.Errorf("reply should use justifier output: %q", reply)
	}
	// 理由不足的结果退化为模板
	if !strings.Contains(reply, "compatibility score") {
		t.Errorf("missing justifications should fall back to template: %q", reply)
	}
}

func TestController_JustifierFailureFallsBack(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{extraction(dressAttrs(0.9), "")}}
	ctrl := NewController(ext, testEngine(t),
		WithJustifier(&staticJustifier{err: errors.New("rate limited")}),
	)

	reply, err := ctrl.Process(context.Background(), "a dress")
	if err != nil {
		t.Fatalf("justifier failure must not surface: %v", err)
	}
	if !strings.Contains(reply, "Here are my top picks for you:") {
		t.Errorf("reply should still recommend: %q", reply)
	}
	if !strings.Contains(reply, "compatibility score") {
		t.Errorf("reply should use template fallback: %q", reply)
	}
}

func TestController_Reset(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(dressAttrs(0.9), "which occasion?"),
	}}
	ctrl := NewController(ext, testEngine(t))

	if _, err := ctrl.Process(context.Background(), "a dress"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	ctrl.Reset()

	if ctrl.State() != StateGathering {
		t.Errorf("state = %s, want %s", ctrl.State(), StateGathering)
	}
	if len(ctrl.History()) != 0 {
		t.Errorf("history not cleared: %d turns", len(ctrl.History()))
	}
	if !ctrl.Model().Empty() {
		t.Errorf("model not cleared: %q", ctrl.Model().AsText())
	}
	if ctrl.FollowUps() != 0 {
		t.Errorf("follow-up count not cleared: %d", ctrl.FollowUps())
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ext := &scriptedExtractor{script: []*core.Extraction{
		extraction(dressAttrs(0.9), "which occasion?"),
	}}
	eng := testEngine(t)
	ctrl := NewController(ext, eng, WithSessionID("s1"))
	ctx := context.Background()

	if _, err := ctrl.Process(ctx, "a dress"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	mem := store.NewMemoryStore()
	defer mem.Close()
	sessions := NewSessionStore(mem, 0)

	if err := sessions.Save(ctx, ctrl); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := NewController(ext, eng)
	if err := sessions.Load(ctx, "s1", restored); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if restored.SessionID() != "s1" {
		t.Errorf("SessionID = %q, want s1", restored.SessionID())
	}
	if restored.State() != ctrl.State() {
		t.Errorf("state = %s, want %s", restored.State(), ctrl.State())
	}
	if restored.FollowUps() != ctrl.FollowUps() {
		t.Errorf("followUps = %d, want %d", restored.FollowUps(), ctrl.FollowUps())
	}
	if restored.Model().AsText() != ctrl.Model().AsText() {
		t.Errorf("model = %q, want %q", restored.Model().AsText(), ctrl.Model().AsText())
	}
	if len(restored.History()) != len(ctrl.History()) {
		t.Errorf("history = %d turns, want %d", len(restored.History()), len(ctrl.History()))
	}

	if err := sessions.Load(ctx, "missing", restored); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("Load(missing) = %v, want ErrStoreNotFound", err)
	}
}
