package public

import (
	"github.com/inkwell-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCategories 返回固定分类枚举。
func (h *Handler) GetCategories(c *gin.Context) {
	response.Success(c, h.PostService.Categories())
}

// GetTags 返回使用次数最多的标签。
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.PostService.TopTags()
	if err != nil {
		respondError(c, response.CodeInternal, "fetch tags failed", err)
		return
	}
	response.Success(c, tags)
}
