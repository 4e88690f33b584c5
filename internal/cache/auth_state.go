package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-api/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// AuthState 用户鉴权快照
// 仅缓存中间件需要的最小字段,避免每个请求都回表查用户。
type AuthState struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt int64  `json:"updated_at"`
}

func authStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildAuthState 从用户模型构建鉴权快照
func BuildAuthState(user *models.User) *AuthState {
	if user == nil {
		return nil
	}
	return &AuthState{
		UserID:    user.ID,
		Role:      user.Role,
		IsActive:  user.IsActive,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetAuthState 获取用户鉴权快照
func GetAuthState(ctx context.Context, userID uint) (*AuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state AuthState
	hit, err := GetJSON(ctx, authStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAuthState 写入用户鉴权快照
func SetAuthState(ctx context.Context, state *AuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateCacheTTL)
}

// DelAuthState 删除用户鉴权快照
func DelAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authStateKey(userID))
}
