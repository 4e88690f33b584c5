package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/inkwell-api/internal/http/handlers/shared"
	"github.com/inkwell-api/internal/http/response"
	"github.com/inkwell-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetBlogs 全量文章列表,管理端可见任意状态与下架文章。
func (h *Handler) GetBlogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
		OrderBy:  "created_at DESC",
	}
	if author := strings.TrimSpace(c.Query("author")); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid author id", nil)
			return
		}
		filter.AuthorID = uint(authorID)
	}

	posts, total, err := h.PostService.ListAll(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list blogs failed", err)
		return
	}

	response.SuccessWithPage(c, posts, response.NewPagination(page, pageSize, total))
}
