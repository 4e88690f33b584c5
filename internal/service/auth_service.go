package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-api/internal/cache"
	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"
	"github.com/inkwell-api/internal/logger"
	"github.com/inkwell-api/internal/models"
	"github.com/inkwell-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserJWTClaims 访问令牌负载,只携带用户 ID。
type UserJWTClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService 负责注册、登录与令牌签发/校验。
type AuthService struct {
	users   repository.UserRepository
	cfg     *config.Config
	captcha *CaptchaService
}

func NewAuthService(users repository.UserRepository, cfg *config.Config, captcha *CaptchaService) *AuthService {
	return &AuthService{
		users:   users,
		cfg:     cfg,
		captcha: captcha,
	}
}

// RegisterInput 注册请求参数
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Captcha     *CaptchaVerifyPayload
}

// LoginInput 登录请求参数
type LoginInput struct {
	Email    string
	Password string
	Captcha  *CaptchaVerifyPayload
}

// UpdateProfileInput 资料更新参数,nil 字段表示不修改。
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Password    *string
}

// Register 创建新用户,用户名与邮箱均要求唯一。
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(constants.CaptchaSceneRegister, input.Captcha); err != nil {
			return nil, err
		}
	}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, ErrInvalidCredentials
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailExists
	}
	if existing, err := s.users.GetByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         constants.UserRoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	logger.Infow("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)
	return user, nil
}

// Login 校验凭证并签发访问令牌。无论用户不存在还是密码错误,
// 都返回同一个 ErrInvalidCredentials,避免枚举账户。
func (s *AuthService) Login(input LoginInput) (string, *models.User, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(constants.CaptchaSceneLogin, input.Captcha); err != nil {
			return "", nil, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrUserDisabled
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(user); err != nil {
		logger.Warnw("login_timestamp_update_failed", "user_id", user.ID, "error", err)
	}
	_ = cache.SetAuthState(context.Background(), cache.BuildAuthState(user))

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	logger.Infow("user_logged_in", "user_id", user.ID)
	return token, user, nil
}

// GetProfile 返回当前用户资料。
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile 局部更新资料,修改密码时重新走密码策略校验。
func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name != "" {
			user.DisplayName = name
		}
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Password != nil && *input.Password != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, *input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetAuthState(context.Background(), cache.BuildAuthState(user))
	return user, nil
}

// GenerateToken 签发 HS256 访问令牌。
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 168
	}
	now := time.Now()
	claims := UserJWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

// ParseToken 校验签名与过期时间并返回负载。
func (s *AuthService) ParseToken(tokenString string) (*UserJWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserJWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserJWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ResolveIdentity 按令牌负载加载用户快照,优先命中 Redis。
// 被禁用的用户即使持有有效令牌也会被拒绝。
func (s *AuthService) ResolveIdentity(ctx context.Context, claims *UserJWTClaims) (*cache.AuthState, error) {
	if state, hit, err := cache.GetAuthState(ctx, claims.UserID); err == nil && hit {
		if !state.IsActive {
			return nil, ErrUserDisabled
		}
		return state, nil
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	state := cache.BuildAuthState(user)
	_ = cache.SetAuthState(ctx, state)
	if !user.IsActive {
		return nil, ErrUserDisabled
	}
	return state, nil
}
