package service

import (
	"context"

	"github.com/inkwell-api/internal/cache"
	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/models"
	"github.com/inkwell-api/internal/repository"
)

// UserService 管理端用户操作
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List 分页列出用户,支持关键字与角色过滤。
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.users.List(filter)
}

// SetStatus 启用或禁用用户。禁用立即生效:
// 鉴权快照缓存被删除,下一次请求回表后即被拒绝。
func (s *UserService) SetStatus(id uint, isActive bool) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if err := s.users.UpdateStatus(id, isActive); err != nil {
		return nil, err
	}
	user.IsActive = isActive
	_ = cache.DelAuthState(context.Background(), id)

	logger.Infow("user_status_changed",
		"user_id", id,
		"is_active", isActive,
	)
	return user, nil
}
