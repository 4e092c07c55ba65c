package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rushteam/vibekit/core"
	"github.com/rushteam/vibekit/engine"
)

// State 表示会话所处的阶段。
type State string

const (
	// StateGathering 初始阶段: 尚未收集到足够的偏好信息。
	StateGathering State = "gathering"
	// StateClarifying 追问阶段: 已经发起澄清问题, 等待用户回答。
	StateClarifying State = "clarifying"
	// StateRecommending 推荐阶段: 偏好信息充分, 已产出推荐。
	StateRecommending State = "recommending"
	// StateExhausted 追问次数用尽: 无论偏好是否完整都直接推荐。
	StateExhausted State = "exhausted"
)

// UpdatePolicy 控制每轮抽取结果如何写回偏好模型。
type UpdatePolicy string

const (
	// PolicyReplace 每轮用最新抽取结果重建模型, 旧偏好由抽取器负责回传。
	PolicyReplace UpdatePolicy = "replace"
	// PolicyMerge 在已确认的偏好上增量合并, 同名属性后写覆盖。
	PolicyMerge UpdatePolicy = "merge"
)

const (
	// DefaultMaxFollowUps 单个会话允许的最大追问次数。
	DefaultMaxFollowUps = 2
	// DefaultTopK 推荐回复中展示的商品数量。
	DefaultTopK = 3
)

// Controller 维护一个购物会话: 抽取偏好, 决定追问还是推荐, 生成回复文本。
// 所有失败都会退化为对用户可读的回复, 只有 context 取消会以 error 返回。
type Controller struct {
	extractor core.Extractor
	justifier core.Justifier
	eng       *engine.Engine

	sessionID    string
	policy       UpdatePolicy
	maxFollowUps int
	topK         int
	threshold    float64

	state     State
	turns     []core.Turn
	model     *core.AttributeModel
	followUps int
}

// Option 配置 Controller。
type Option func(*Controller)

// WithSessionID 设置会话标识。
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// WithPolicy 设置偏好模型的更新策略。
func WithPolicy(p UpdatePolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithMaxFollowUps 设置最大追问次数, 负数按 0 处理。
func WithMaxFollowUps(n int) Option {
	return func(c *Controller) {
		if n < 0 {
			n = 0
		}
		c.maxFollowUps = n
	}
}

// WithTopK 设置推荐回复中展示的商品数量。
func WithTopK(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.topK = n
		}
	}
}

// WithJustifier 设置推荐理由生成器, 缺省使用模板化理由。
func WithJustifier(j core.Justifier) Option {
	return func(c *Controller) {
		c.justifier = j
	}
}

// WithAcceptThreshold 设置偏好置信度的接受阈值。
func WithAcceptThreshold(t float64) Option {
	return func(c *Controller) {
		c.threshold = t
	}
}

// NewController 创建会话控制器。
func NewController(extractor core.Extractor, eng *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		extractor:    extractor,
		eng:          eng,
		sessionID:    "default",
		policy:       PolicyReplace,
		maxFollowUps: DefaultMaxFollowUps,
		topK:         DefaultTopK,
		threshold:    core.DefaultAcceptThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = StateGathering
	c.model = core.NewAttributeModelWithThreshold(c.threshold)
	return c
}

// SessionID 返回会话标识。
func (c *Controller) SessionID() string { return c.sessionID }

// State 返回当前会话阶段。
func (c *Controller) State() State { return c.state }

// FollowUps 返回已经发起的追问次数。
func (c *Controller) FollowUps() int { return c.followUps }

// Model 返回当前偏好模型的副本。
func (c *Controller) Model() *core.AttributeModel { return c.model.Clone() }

// History 返回会话历史的副本。
func (c *Controller) History() []core.Turn {
	out := make([]core.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Reset 清空会话状态, 回到初始阶段。
func (c *Controller) Reset() {
	c.state = StateGathering
	c.turns = nil
	c.model = core.NewAttributeModelWithThreshold(c.threshold)
	c.followUps = 0
}

// Process 处理一条用户输入, 返回助手回复。回复同时写入会话历史。
// 抽取失败按空抽取处理, 推荐失败转为提示文案, 仅 context 取消以 error 返回。
func (c *Controller) Process(ctx context.Context, text string) (string, error) {
	c.turns = append(c.turns, core.Turn{Role: core.RoleUser, Text: text})

	ext, err := c.extractor.Extract(ctx, c.History(), c.model)
	if err != nil {
		if ctxErr := contextErr(ctx, err); ctxErr != nil {
			return "", ctxErr
		}
		ext = &core.Extraction{}
	}
	if ext == nil {
		ext = &core.Extraction{}
	}

	switch c.policy {
	case PolicyMerge:
		c.model = c.model.Merge(ext.Attributes)
	default:
		c.model = core.NewAttributeModelWithThreshold(c.threshold).Merge(ext.Attributes)
	}

	var reply string
	followUp := strings.TrimSpace(ext.FollowUp)
	switch {
	case followUp != "" && c.followUps < c.maxFollowUps:
		c.followUps++
		c.state = StateClarifying
		reply = fmt.Sprintf("Great! I found some lovely options for '%s'. To help me find the perfect pieces for you, %s", text, followUp)
	default:
		if followUp != "" {
			c.state = StateExhausted
		} else {
			c.state = StateRecommending
		}
		reply, err = c.recommend(ctx)
		if err != nil {
			return "", err
		}
	}

	c.turns = append(c.turns, core.Turn{Role: core.RoleAssistant, Text: reply})
	return reply, nil
}

func (c *Controller) recommend(ctx context.Context) (string, error) {
	rctx := &core.RecommendContext{
		SessionID: c.sessionID,
		Scene:     "chat",
		Model:     c.model,
	}
	results, err := c.eng.Find(ctx, rctx)
	if err != nil {
		if bounds, ok := core.IsNoResultsInBudget(err); ok {
			return fmt.Sprintf("I couldn't find anything %s that matches your vibe. Would you like to adjust your budget?", bounds.String()), nil
		}
		if core.IsNoResults(err) {
			return "I couldn't find close matches for your vibe. Could you describe what you're looking for a bit differently?", nil
		}
		if ctxErr := contextErr(ctx, err); ctxErr != nil {
			return "", ctxErr
		}
		return "Something went wrong while searching for recommendations. Please try again.", nil
	}

	top := results
	if len(top) > c.topK {
		top = top[:c.topK]
	}
	justs := c.justify(ctx, top)

	var b strings.Builder
	b.WriteString("Here are my top picks for you:\n")
	for i, r := range top {
		b.WriteString(fmt.Sprintf("\n%d. **%s** ($%.2f)\n   %s\n", i+1, r.ItemName, r.Price, justs[i]))
	}
	return b.String(), nil
}

// justify 为每个推荐结果生成一句理由, 生成失败时逐条退化为模板文案。
func (c *Controller) justify(ctx context.Context, results []*core.MatchResult) []string {
	justs := make([]string, len(results))
	if c.justifier != nil {
		got, err := c.justifier.Justify(ctx, &core.JustifyRequest{
			History: c.History(),
			Model:   c.model,
			Results: results,
		})
		if err == nil {
			for i := range justs {
				if i < len(got) {
					justs[i] = strings.TrimSpace(got[i])
				}
			}
		}
	}
	for i, r := range results {
		if justs[i] == "" {
			justs[i] = fmt.Sprintf("A versatile piece that matches your style perfectly with a %.2f compatibility score.", r.Score)
		}
	}
	return justs
}

func contextErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
