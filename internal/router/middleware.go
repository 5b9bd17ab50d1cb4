package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	handlershared "github.com/gobox-app/internal/http/handlers/shared"
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/i18n"
	"github.com/gobox-app/internal/repository"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// sessionRejectKey 令牌存在但无效时记录原因，需登录的接口据此返回
const sessionRejectKey = "session_reject_key"

// UserTokenParser 解析用户令牌
type UserTokenParser interface {
	ParseUserJWT(tokenString string) (*service.UserJWTClaims, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Authorization",
			"Accept-Language",
			"X-Locale",
			"X-Form-Token",
			requestIDHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		header := c.Writer.Header()
		if allowedOrigin := resolveAllowedOrigin(c.GetHeader("Origin"), allowedOrigins, cfg.AllowCredentials); allowedOrigin != "" {
			header.Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Headers", headersHeader)
		header.Set("Access-Control-Allow-Methods", methodsHeader)
		header.Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
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
		c.Set(response.RequestIDKey, requestID)
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
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if userID := c.GetUint("user_id"); userID > 0 {
			log = log.With("user_id", userID)
		}
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(response.RequestIDKey)
}

// SessionMiddleware 解析可选的 Bearer 令牌并注入会话
// 无令牌或令牌无效时注入未登录会话，是否拒绝由 RequireUserMiddleware 决定
func SessionMiddleware(parser UserTokenParser, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, rejectKey := resolveSession(c, parser, userRepo)
		if rejectKey != "" {
			c.Set(sessionRejectKey, rejectKey)
		}
		handlershared.SetSession(c, session)
		c.Next()
	}
}

func resolveSession(c *gin.Context, parser UserTokenParser, userRepo repository.UserRepository) (*service.Session, string) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return service.LoggedOut(), ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return service.LoggedOut(), "error.auth_header_invalid"
	}
	if parser == nil || userRepo == nil {
		return service.LoggedOut(), "error.token_invalid"
	}
	claims, err := parser.ParseUserJWT(strings.TrimSpace(parts[1]))
	if err != nil || claims == nil {
		return service.LoggedOut(), "error.token_invalid"
	}

	ctx := c.Request.Context()
	if cached, hit, cacheErr := cache.GetUserAuthState(ctx, claims.UserID); cacheErr == nil && hit && cached != nil {
		if !isActiveUserStatus(cached.Status) {
			return service.LoggedOut(), "error.user_disabled"
		}
		if service.IsTokenRevoked(claims, cached.TokenVersion, unixToTime(cached.TokenInvalidBefore)) {
			return service.LoggedOut(), "error.token_revoked"
		}
		return service.LoggedIn(service.SessionUser{
			ID:          cached.UserID,
			Email:       cached.Email,
			DisplayName: cached.DisplayName,
			AccountType: cached.AccountType,
		}), ""
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return service.LoggedOut(), "error.token_invalid"
	}
	if !isActiveUserStatus(user.Status) {
		return service.LoggedOut(), "error.user_disabled"
	}
	if service.IsTokenRevoked(claims, user.TokenVersion, user.TokenInvalidBefore) {
		return service.LoggedOut(), "error.token_revoked"
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return service.SessionFromUser(user), ""
}

// RequireUserMiddleware 需登录接口守卫
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if handlershared.GetSession(c).IsLoggedIn() {
			c.Next()
			return
		}
		key := c.GetString(sessionRejectKey)
		if key == "" {
			key = "error.unauthorized"
		}
		response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
		c.Abort()
	}
}

func unixToTime(unix int64) *time.Time {
	if unix <= 0 {
		return nil
	}
	t := time.Unix(unix, 0)
	return &t
}

func isActiveUserStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}
