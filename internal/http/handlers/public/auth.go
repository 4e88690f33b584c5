package public

import (
	"errors"

	"github.com/inkwell-api/internal/http/response"
	"github.com/inkwell-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username       string                `json:"username" binding:"required"`
	Email          string                `json:"email" binding:"required,email"`
	Password       string                `json:"password" binding:"required"`
	DisplayName    string                `json:"display_name"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Register 用户注册,成功后直接签发令牌。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Captcha:     req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "email already registered", nil)
		case errors.Is(err, service.ErrUsernameExists):
			respondError(c, response.CodeBadRequest, "username already taken", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "username and email are required", nil)
		case errors.Is(err, service.ErrCaptchaRequired):
			respondError(c, response.CodeBadRequest, "captcha required", nil)
		case errors.Is(err, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, "captcha verification failed", nil)
		default:
			respondError(c, response.CodeInternal, "register failed", err)
		}
		return
	}

	token, err := h.AuthService.GenerateToken(user)
	if err != nil {
		respondError(c, response.CodeInternal, "token generation failed", err)
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	token, user, err := h.AuthService.Login(service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Captcha:  req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeForbidden, "account disabled", nil)
		case errors.Is(err, service.ErrCaptchaRequired):
			respondError(c, response.CodeBadRequest, "captcha required", nil)
		case errors.Is(err, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, "captcha verification failed", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "fetch profile failed", err)
		return
	}
	response.Success(c, user)
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Password    *string `json:"password"`
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.AuthService.UpdateProfile(userID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "update profile failed", err)
		}
		return
	}
	response.Success(c, user)
}

// VerifyToken 校验当前令牌有效性并返回用户信息。
func (h *Handler) VerifyToken(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeUnauthorized, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "verify failed", err)
		return
	}
	response.Success(c, gin.H{
		"valid": true,
		"user":  user,
	})
}
