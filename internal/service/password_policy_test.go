package service

import (
	"errors"
	"testing"

	"github.com/inkwell-api/internal/config"
)

func TestValidatePasswordDefaults(t *testing.T) {
	// 零值策略仍然有最小长度兜底
	policy := config.PasswordPolicyConfig{}
	if err := validatePassword(policy, "1234567"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("7 chars should fail default min length, got %v", err)
	}
	if err := validatePassword(policy, "12345678"); err != nil {
		t.Fatalf("8 chars should pass permissive policy, got %v", err)
	}
}

func TestValidatePasswordCharacterClasses(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:      10,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	cases := []struct {
		password string
		valid    bool
	}{
		{"Aa1!aaaaaa", true},
		{"aa1!aaaaaa", false}, // 缺大写
		{"AA1!AAAAAA", false}, // 缺小写
		{"Aaa!aaaaaa", false}, // 缺数字
		{"Aa1aaaaaaa", false}, // 缺符号
		{"Aa1!a", false},      // 太短
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.valid && err != nil {
			t.Fatalf("password %q should pass, got %v", tc.password, err)
		}
		if !tc.valid && !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q should fail as weak, got %v", tc.password, err)
		}
	}
}

func TestPasswordPolicyErrorCarriesReason(t *testing.T) {
	err := validatePassword(config.PasswordPolicyConfig{RequireNumber: true}, "abcdefgh")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password error, got %v", err)
	}
	if err.Error() == ErrWeakPassword.Error() {
		t.Fatalf("policy error should carry a specific reason, got %q", err.Error())
	}
}
