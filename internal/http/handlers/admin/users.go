package admin

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

// GetUsers 用户列表,支持关键字与角色过滤。
func (h *Handler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid is_active value", nil)
			return
		}
		filter.IsActive = &active
	}

	users, total, err := h.UserService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list users failed", err)
		return
	}

	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// UpdateUserStatusRequest 用户状态更新请求
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UpdateUserStatus 启用/禁用用户。
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserService.SetStatus(uint(id), *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "update user status failed", err)
		return
	}

	requestLog(c).Infow("admin_user_status_updated",
		"target_user_id", user.ID,
		"is_active", user.IsActive,
	)
	response.Success(c, user)
}
