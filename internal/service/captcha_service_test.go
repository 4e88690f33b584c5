package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"
)

func imageCaptchaConfig() config.CaptchaConfig {
	return config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes:   config.CaptchaSceneConfig{Login: true, Register: false},
		Image: config.CaptchaImageConfig{
			Length:        4,
			Width:         120,
			Height:        40,
			ExpireSeconds: 60,
		},
	}
}

func TestCaptchaSceneToggles(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())
	if !svc.Enabled(constants.CaptchaSceneLogin) {
		t.Fatalf("login scene should be enabled")
	}
	if svc.Enabled(constants.CaptchaSceneRegister) {
		t.Fatalf("register scene should be disabled")
	}
	if svc.Enabled("unknown") {
		t.Fatalf("unknown scene should be disabled")
	}

	disabled := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone})
	if disabled.Enabled(constants.CaptchaSceneLogin) {
		t.Fatalf("provider none disables every scene")
	}
}

func TestCaptchaVerify(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	// 未启用的场景直接放行
	if err := svc.Verify(constants.CaptchaSceneRegister, nil); err != nil {
		t.Fatalf("disabled scene should skip verification, got %v", err)
	}

	if err := svc.Verify(constants.CaptchaSceneLogin, nil); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("nil payload should require captcha, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, &CaptchaVerifyPayload{ID: " ", Answer: ""}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("blank payload should require captcha, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, &CaptchaVerifyPayload{ID: "missing", Answer: "abcd"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("unknown challenge id should be invalid, got %v", err)
	}
}

func TestCaptchaGenerateImage(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	challenge, err := svc.GenerateImage()
	if err != nil {
		t.Fatalf("generate image failed: %v", err)
	}
	if challenge.ID == "" {
		t.Fatalf("challenge must carry an id")
	}
	if !strings.HasPrefix(challenge.ImageBase64, "data:image/") {
		t.Fatalf("image should be a data url")
	}
	if challenge.ExpireSeconds != 60 {
		t.Fatalf("expire seconds want 60 got %d", challenge.ExpireSeconds)
	}

	none := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone})
	if _, err := none.GenerateImage(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("provider none should reject generation, got %v", err)
	}
}
