package repository

import (
	"errors"

	"github.com/inkwell-api/internal/models"

	"gorm.io/gorm"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	ListByPost(filter CommentListFilter) ([]models.Comment, error)
	CountByPost(postID uint) (int64, error)
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create 创建评论
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论（含作者）
func (r *GormCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost 按文章列出评论（时间正序）
func (r *GormCommentRepository) ListByPost(filter CommentListFilter) ([]models.Comment, error) {
	query := r.db.Where("post_id = ?", filter.PostID).Order("created_at ASC")
	if filter.WithAuthor {
		query = query.Preload("Author")
	}
	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost 统计文章的评论数量
func (r *GormCommentRepository) CountByPost(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
