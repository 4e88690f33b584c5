package shared

import (
	"strings"

	"github.com/inkwell-api/internal/service"
)

// CaptchaPayloadRequest 验证码请求载荷。
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload 转换为 service 层验证码载荷。
func (r CaptchaPayloadRequest) ToServicePayload() *service.CaptchaVerifyPayload {
	id := strings.TrimSpace(r.CaptchaID)
	answer := strings.TrimSpace(r.CaptchaCode)
	if id == "" && answer == "" {
		return nil
	}
	return &service.CaptchaVerifyPayload{
		ID:     id,
		Answer: answer,
	}
}
