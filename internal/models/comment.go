package models

import "time"

// Comment 评论表。评论没有独立生命周期，随所属文章创建、读取与删除。
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	PostID    uint      `gorm:"not null;index" json:"post_id"`    // 所属文章
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`  // 评论作者
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"` // 内容（1-1000 字符）
	CreatedAt time.Time `gorm:"index" json:"created_at"`           // 创建时间
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
