package repository

import (
	"errors"

	"github.com/inkwell-api/internal/models"

	"gorm.io/gorm"
)

// LikeRepository 点赞数据访问接口
type LikeRepository interface {
	Exists(postID, userID uint) (bool, error)
	Add(postID, userID uint) error
	Remove(postID, userID uint) error
	CountByPost(postID uint) (int64, error)
}

// GormLikeRepository GORM 实现
type GormLikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository 创建点赞仓库
func NewLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// Exists 判断用户是否已点赞
func (r *GormLikeRepository) Exists(postID, userID uint) (bool, error) {
	var like models.PostLike
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Add 点赞。复合唯一索引拦截并发重复插入。
func (r *GormLikeRepository) Add(postID, userID uint) error {
	return r.db.Create(&models.PostLike{PostID: postID, UserID: userID}).Error
}

// Remove 取消点赞
func (r *GormLikeRepository) Remove(postID, userID uint) error {
	return r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{}).Error
}

// CountByPost 统计文章点赞数
func (r *GormLikeRepository) CountByPost(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
