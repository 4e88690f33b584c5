package service

import "errors"

// 业务错误哨兵,handler 层通过 errors.Is 映射为响应码。
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("account disabled")
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrSlugExists         = errors.New("slug already exists")
	ErrInvalidTitle       = errors.New("invalid title")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidComment     = errors.New("invalid comment content")
	ErrNotPostOwner       = errors.New("not allowed to modify this post")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha verification failed")
	ErrCaptchaConfigInvalid = errors.New("captcha configuration invalid")
)
