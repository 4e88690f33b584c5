package public

import (
	"errors"

	"github.com/inkwell-api/internal/http/response"
	"github.com/inkwell-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "captcha unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImage()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "captcha unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "captcha generate failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":     challenge.ID,
		"image_base64":   challenge.ImageBase64,
		"expire_seconds": challenge.ExpireSeconds,
	})
}
