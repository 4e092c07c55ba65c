package conversation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/vibekit/core"
)

// Snapshot 是会话状态的可序列化快照, 用于跨进程恢复会话。
type Snapshot struct {
	SessionID string               `json:"session_id"`
	State     State                `json:"state"`
	Turns     []core.Turn          `json:"turns,omitempty"`
	Model     *core.AttributeModel `json:"model,omitempty"`
	Threshold float64              `json:"threshold"`
	FollowUps int                  `json:"follow_ups"`
	SavedAt   int64                `json:"saved_at"`
}

// Snapshot 导出当前会话状态。
func (c *Controller) Snapshot() *Snapshot {
	return &Snapshot{
		SessionID: c.sessionID,
		State:     c.state,
		Turns:     c.History(),
		Model:     c.model.Clone(),
		Threshold: c.threshold,
		FollowUps: c.followUps,
		SavedAt:   time.Now().Unix(),
	}
}

// Restore 用快照覆盖当前会话状态。快照中的接受门槛优先于构造时的配置。
func (c *Controller) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	if snap.SessionID != "" {
		c.sessionID = snap.SessionID
	}
	if snap.Threshold > 0 {
		c.threshold = snap.Threshold
	}
	c.state = snap.State
	if c.state == "" {
		c.state = StateGathering
	}
	c.turns = append([]core.Turn(nil), snap.Turns...)
	c.followUps = snap.FollowUps
	if snap.Model != nil {
		c.model = core.NewAttributeModelWithThreshold(c.threshold).
			Merge(modelCandidates(snap.Model))
	} else {
		c.model = core.NewAttributeModelWithThreshold(c.threshold)
	}
}

func modelCandidates(m *core.AttributeModel) map[string][]core.AttributeCandidate {
	out := make(map[string][]core.AttributeCandidate)
	for _, name := range m.Attributes() {
		out[name] = m.Candidates(name)
	}
	return out
}

// SessionStore 把会话快照持久化到 core.Store, 内存与 redis 实现均可。
type SessionStore struct {
	store  core.Store
	prefix string
	ttl    int
}

// NewSessionStore 创建会话存储, ttl 单位为秒, <=0 表示不过期。
func NewSessionStore(store core.Store, ttl int) *SessionStore {
	return &SessionStore{store: store, prefix: "vibekit:session:", ttl: ttl}
}

// Save 保存控制器的当前快照。
func (s *SessionStore) Save(ctx context.Context, c *Controller) error {
	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.store.Set(ctx, s.prefix+c.SessionID(), data, s.ttl)
	}
	return s.store.Set(ctx, s.prefix+c.SessionID(), data)
}

// Load 按会话标识恢复快照到控制器。快照不存在时返回 core.ErrStoreNotFound。
func (s *SessionStore) Load(ctx context.Context, sessionID string, c *Controller) error {
	data, err := s.store.Get(ctx, s.prefix+sessionID)
	if err != nil {
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	c.Restore(&snap)
	return nil
}

// Delete 删除某个会话的快照。
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, s.prefix+sessionID)
}
