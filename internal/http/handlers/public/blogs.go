package public

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/inkwell-api/internal/http/handlers/shared"
	"github.com/inkwell-api/internal/http/response"
	"github.com/inkwell-api/internal/repository"
	"github.com/inkwell-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBlogs 公开文章列表,支持分类/标签/作者/关键字过滤。
func (h *Handler) ListBlogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Search:   strings.TrimSpace(c.Query("search")),
		OrderBy:  "published_at DESC",
	}
	if author := strings.TrimSpace(c.Query("author")); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid author id", nil)
			return
		}
		filter.AuthorID = uint(authorID)
	}

	posts, total, err := h.PostService.ListPublished(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list blogs failed", err)
		return
	}

	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// GetBlogBySlug 公开详情,读取时异步累加浏览计数。
func (h *Handler) GetBlogBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "slug is required", nil)
		return
	}

	detail, err := h.PostService.GetPublishedBySlug(slug, getIdentity(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "blog not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch blog failed", err)
		return
	}
	response.Success(c, detail)
}

// GetBlogForEdit 编辑视图,仅作者或管理员可读。
func (h *Handler) GetBlogForEdit(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.PostService.GetForEdit(getIdentity(c), postID)
	if err != nil {
		respondBlogMutationError(c, err, "fetch blog failed")
		return
	}
	response.Success(c, post)
}

// BlogRequest 创建文章请求
type BlogRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
}

// CreateBlog 创建文章
func (h *Handler) CreateBlog(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	post, err := h.PostService.Create(userID, service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   req.Status,
	})
	if err != nil {
		respondBlogMutationError(c, err, "create blog failed")
		return
	}
	response.Success(c, post)
}

// UpdateBlogRequest 更新文章请求,nil 字段不修改。
type UpdateBlogRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
}

// UpdateBlog 更新文章
func (h *Handler) UpdateBlog(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	post, err := h.PostService.Update(getIdentity(c), postID, service.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   req.Status,
	})
	if err != nil {
		respondBlogMutationError(c, err, "update blog failed")
		return
	}
	response.Success(c, post)
}

// DeleteBlog 删除文章
func (h *Handler) DeleteBlog(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.PostService.Delete(getIdentity(c), postID); err != nil {
		respondBlogMutationError(c, err, "delete blog failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// MyBlogs 当前用户的文章列表,包含草稿与已归档。
func (h *Handler) MyBlogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderBy:  "created_at DESC",
	}
	posts, total, err := h.PostService.ListByAuthor(userID, filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list blogs failed", err)
		return
	}
	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// ToggleBlogLike 点赞/取消点赞
func (h *Handler) ToggleBlogLike(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	result, err := h.PostService.ToggleLike(userID, postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "blog not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "toggle like failed", err)
		return
	}
	response.Success(c, result)
}

// CommentRequest 评论请求
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddBlogComment 追加评论
func (h *Handler) AddBlogComment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	comment, err := h.PostService.AddComment(userID, postID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "blog not found", nil)
		case errors.Is(err, service.ErrInvalidComment):
			respondError(c, response.CodeBadRequest, "comment must be between 1 and 1000 characters", nil)
		default:
			respondError(c, response.CodeInternal, "add comment failed", err)
		}
		return
	}
	response.Success(c, comment)
}

func parsePostID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid blog id", nil)
		return 0, false
	}
	return uint(id), true
}

func respondBlogMutationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "blog not found", nil)
	case errors.Is(err, service.ErrNotPostOwner):
		respondError(c, response.CodeForbidden, "not allowed to modify this blog", nil)
	case errors.Is(err, service.ErrInvalidTitle):
		respondError(c, response.CodeBadRequest, "title must be between 1 and 200 characters", nil)
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, response.CodeBadRequest, "invalid category", nil)
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, response.CodeBadRequest, "invalid status", nil)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "slug already exists", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.NewPagination(page, pageSize, total)
}
