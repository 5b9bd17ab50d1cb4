package router

import (
	"fmt"
	"strings"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	publichandlers "github.com/gobox-app/internal/http/handlers/public"
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/i18n"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gobox"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	redisClient := cache.Client()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(SessionMiddleware(c.UserAuthService, c.UserRepo))
	{
		// 公开接口，登录与否均可访问
		public := apiV1.Group("/public")
		{
			public.GET("/config", h.GetConfig)
			public.GET("/contact", h.GetContact)
			public.GET("/navigation", h.GetNavigation)
			public.GET("/routes/resolve", h.ResolveRoute)
			public.GET("/delivery-options", h.GetDeliveryOptions)
			public.GET("/pricing", h.GetPricing)
			public.GET("/pricing/quote", h.GetPricingQuote)
			public.POST("/deliveries/preview", h.PreviewDelivery)
			public.GET("/captcha/config", h.GetCaptchaConfig)
			public.GET("/captcha/image", h.GetImageCaptcha)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", h.UserSignup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), h.UserLogin)
			auth.POST("/google", RateLimitMiddleware(redisClient, loginRule, KeyByIP), h.UserGoogleLogin)
			auth.POST("/apple", RateLimitMiddleware(redisClient, loginRule, KeyByIP), h.UserAppleLogin)
			auth.POST("/logout", RequireUserMiddleware(), h.UserLogout)
		}

		// 未登录提交由服务层返回缺少输入的提示，不在此拦截
		apiV1.POST("/deliveries", h.SubmitDelivery)

		user := apiV1.Group("")
		user.Use(RequireUserMiddleware())
		{
			user.GET("/me", h.GetCurrentUser)
			user.GET("/me/login-logs", h.GetMyLoginLogs)
			user.GET("/deliveries", h.ListMyDeliveries)
			user.GET("/deliveries/latest", h.GetLatestDelivery)
			user.GET("/deliveries/latest/stream", h.StreamLatestDelivery)
			user.GET("/agent/dashboard", h.GetAgentDashboard)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 未匹配的路径统一交给客户端渲染 404 页
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"), gin.H{
			"route": constants.RouteNotFound,
			"path":  c.Request.URL.Path,
		})
	})

	return r
}
