package repository

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page          int
	PageSize      int
	Category      string
	Tag           string
	AuthorID      uint
	Search        string
	Status        string
	OnlyPublished bool
	OnlyActive    bool
	WithAuthor    bool
	OrderBy       string
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	IsActive *bool
}

// CommentListFilter 查询评论列表的过滤条件
type CommentListFilter struct {
	PostID     uint
	WithAuthor bool
}

// TagCount 标签使用统计
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
