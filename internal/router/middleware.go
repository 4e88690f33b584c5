package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-api/internal/cache"
	"github.com/inkwell-api/internal/config"
	"github.com/inkwell-api/internal/constants"
	"github.com/inkwell-api/internal/http/response"
	"github.com/inkwell-api/internal/repository"
	"github.com/inkwell-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const userIDContextKey = "user_id"
const userRoleContextKey = "user_role"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// tokenResolveFailure 解析失败原因,必选鉴权时对应不同的 401 文案。
type tokenResolveFailure struct {
	msg string
}

// resolveBearerToken 解析 Authorization 头并校验令牌与用户状态。
// 成功时返回可写入上下文的身份快照。
func resolveBearerToken(c *gin.Context, secretKey string, userRepo repository.UserRepository) (*cache.AuthState, *tokenResolveFailure) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return nil, &tokenResolveFailure{msg: "access token required"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer" && strings.TrimSpace(parts[1]) != "") {
		return nil, &tokenResolveFailure{msg: "invalid token"}
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.UserJWTClaims{}
	token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &tokenResolveFailure{msg: "token expired"}
		}
		return nil, &tokenResolveFailure{msg: "invalid token"}
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, &tokenResolveFailure{msg: "invalid token"}
	}

	if cached, hit, cacheErr := cache.GetAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && cached != nil {
		if !cached.IsActive {
			return nil, &tokenResolveFailure{msg: "account disabled"}
		}
		return cached, nil
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return nil, &tokenResolveFailure{msg: "invalid token"}
	}
	if !user.IsActive {
		return nil, &tokenResolveFailure{msg: "account disabled"}
	}
	state := cache.BuildAuthState(user)
	_ = cache.SetAuthState(c.Request.Context(), state)
	return state, nil
}

// RequireAuth 必选鉴权:缺失、非法与过期令牌分别返回不同的 401 文案。
func RequireAuth(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" || userRepo == nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		state, failure := resolveBearerToken(c, secretKey, userRepo)
		if failure != nil {
			response.Unauthorized(c, failure.msg)
			c.Abort()
			return
		}
		c.Set(userIDContextKey, state.UserID)
		c.Set(userRoleContextKey, state.Role)
		c.Next()
	}
}

// OptionalAuth 可选鉴权:任何解析失败都静默降级为匿名请求。
func OptionalAuth(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey != "" && userRepo != nil {
			if state, failure := resolveBearerToken(c, secretKey, userRepo); failure == nil {
				c.Set(userIDContextKey, state.UserID)
				c.Set(userRoleContextKey, state.Role)
			}
		}
		c.Next()
	}
}

// RequireAdmin 管理员门禁,依赖 RequireAuth 先写入身份。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(userRoleContextKey)
		if !ok {
			response.Unauthorized(c, "access token required")
			c.Abort()
			return
		}
		role, _ := value.(string)
		if role != constants.UserRoleAdmin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
