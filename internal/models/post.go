package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 字符串数组类型，以 JSON 存储（用于 tags）
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Post 文章表
//
// Slug 全局唯一，首次保存后不为空；ReadingTime 与 PublishedAt 为派生字段，
// 由 service 层在保存前统一维护。AuthorID 创建后不可变更。
type Post struct {
	ID          uint        `gorm:"primarykey" json:"id"`                     // 主键
	Title       string      `gorm:"not null" json:"title"`                    // 标题
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`         // 唯一标识
	Content     string      `gorm:"type:text;not null" json:"content"`        // 正文
	Excerpt     string      `gorm:"type:text" json:"excerpt"`                 // 摘要
	AuthorID    uint        `gorm:"not null;index" json:"author_id"`          // 作者
	Author      *User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category    string      `gorm:"not null;index" json:"category"`           // 分类（固定枚举）
	Tags        StringArray `gorm:"type:json" json:"tags"`                    // 标签
	Status      string      `gorm:"default:'draft';index" json:"status"`      // 状态（draft/published/archived）
	Views       int64       `gorm:"default:0" json:"views"`                   // 浏览计数
	ReadingTime int         `gorm:"default:0" json:"reading_time"`            // 预估阅读分钟数
	PublishedAt *time.Time  `gorm:"index" json:"published_at"`                // 首次发布时间
	IsActive    bool        `gorm:"default:true;index" json:"is_active"`      // 列表可见性开关
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt   time.Time   `json:"updated_at"`                               // 更新时间

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
