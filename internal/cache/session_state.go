package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/wavecast/wavecast/internal/models"
)

const sessionStateCacheTTL = 10 * time.Minute

// SessionState 会话鉴权快照
// 以令牌摘要为键，命中时免去数据库查询
type SessionState struct {
	UserID    uint  `json:"user_id"`
	Verified  bool  `json:"verified"`
	UpdatedAt int64 `json:"updated_at"`
}

func sessionStateKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("auth:session:%s", hex.EncodeToString(sum[:]))
}

// BuildSessionState 从用户模型构建会话快照
func BuildSessionState(user *models.User) *SessionState {
	if user == nil {
		return nil
	}
	return &SessionState{
		UserID:    user.ID,
		Verified:  user.Verified,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetSessionState 获取会话快照
func GetSessionState(ctx context.Context, token string) (*SessionState, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	var state SessionState
	hit, err := GetJSON(ctx, sessionStateKey(token), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetSessionState 写入会话快照
func SetSessionState(ctx context.Context, token string, state *SessionState) error {
	if token == "" || state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, sessionStateKey(token), state, sessionStateCacheTTL)
}

// DelSessionState 删除会话快照
func DelSessionState(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return Del(ctx, sessionStateKey(token))
}

// DelSessionStates 批量删除会话快照，用于全端退出
func DelSessionStates(ctx context.Context, tokens []string) error {
	for _, token := range tokens {
		if err := DelSessionState(ctx, token); err != nil {
			return err
		}
	}
	return nil
}
