package models

import "time"

// PostLike 点赞表。复合唯一索引保证每个用户对一篇文章至多一条记录，
// 点赞切换即插入/删除单行，避免整行读改写造成的更新丢失。
type PostLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                 // 主键
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`    // 文章
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`    // 用户
	CreatedAt time.Time `json:"created_at"`                                           // 点赞时间
}

// TableName 指定表名
func (PostLike) TableName() string {
	return "post_likes"
}
