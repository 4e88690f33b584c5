package service

import (
	"fmt"
	"unicode"

	"github.com/inkwell-api/internal/config"
)

// passwordPolicyError 携带具体原因,但仍匹配 ErrWeakPassword。
type passwordPolicyError struct {
	reason string
}

func (e *passwordPolicyError) Error() string {
	return e.reason
}

func (e *passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func newPasswordPolicyError(reason string) error {
	return &passwordPolicyError{reason: reason}
}

// validatePassword 按配置的密码策略校验明文密码。
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength <= 0 {
		minLength = 8
	}
	if len(password) < minLength {
		return newPasswordPolicyError(fmt.Sprintf("password must be at least %d characters", minLength))
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return newPasswordPolicyError("password must contain an uppercase letter")
	}
	if policy.RequireLower && !hasLower {
		return newPasswordPolicyError("password must contain a lowercase letter")
	}
	if policy.RequireNumber && !hasNumber {
		return newPasswordPolicyError("password must contain a digit")
	}
	if policy.RequireSpecial && !hasSpecial {
		return newPasswordPolicyError("password must contain a special character")
	}
	return nil
}
