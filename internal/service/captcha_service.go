package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// CaptchaVerifyPayload 客户端提交的验证码凭据。
type CaptchaVerifyPayload struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

// CaptchaImageChallenge 下发给客户端的图片验证码。
type CaptchaImageChallenge struct {
	ID            string `json:"id"`
	ImageBase64   string `json:"image_base64"`
	ExpireSeconds int    `json:"expire_seconds"`
}

// CaptchaService 图片验证码,按场景开关决定是否强制校验。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu      sync.Mutex
	captcha *base64Captcha.Captcha
}

func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 指定场景是否需要验证码。
func (s *CaptchaService) Enabled(scene string) bool {
	if s.cfg.Provider != constants.CaptchaProviderImage {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	case constants.CaptchaSceneRegister:
		return s.cfg.Scenes.Register
	default:
		return false
	}
}

// GenerateImage 生成一个图片验证码挑战。
func (s *CaptchaService) GenerateImage() (*CaptchaImageChallenge, error) {
	if s.cfg.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}
	c := s.ensureCaptcha()
	id, b64, _, err := c.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate captcha: %w", err)
	}
	return &CaptchaImageChallenge{
		ID:            id,
		ImageBase64:   b64,
		ExpireSeconds: s.expireSeconds(),
	}, nil
}

// Verify 校验指定场景的验证码。场景未启用时直接放行。
func (s *CaptchaService) Verify(scene string, payload *CaptchaVerifyPayload) error {
	if !s.Enabled(scene) {
		return nil
	}
	if payload == nil {
		return ErrCaptchaRequired
	}
	id := strings.TrimSpace(payload.ID)
	answer := strings.TrimSpace(payload.Answer)
	if id == "" || answer == "" {
		return ErrCaptchaRequired
	}
	c := s.ensureCaptcha()
	if !c.Store.Verify(id, answer, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureCaptcha() *base64Captcha.Captcha {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captcha != nil {
		return s.captcha
	}

	img := s.cfg.Image
	length := img.Length
	if length <= 0 {
		length = 5
	}
	width := img.Width
	if width <= 0 {
		width = 240
	}
	height := img.Height
	if height <= 0 {
		height = 80
	}
	maxStore := img.MaxStore
	if maxStore <= 0 {
		maxStore = base64Captcha.GCLimitNumber
	}

	driver := base64Captcha.NewDriverString(
		height,
		width,
		img.NoiseCount,
		img.ShowLine,
		length,
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	store := base64Captcha.NewMemoryStore(maxStore, time.Duration(s.expireSeconds())*time.Second)
	s.captcha = base64Captcha.NewCaptcha(driver, store)
	return s.captcha
}

func (s *CaptchaService) expireSeconds() int {
	if s.cfg.Image.ExpireSeconds > 0 {
		return s.cfg.Image.ExpireSeconds
	}
	return 300
}
