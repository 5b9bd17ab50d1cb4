package public

import (
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/i18n"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config:"
	publicConfigCacheTTL = 60 * time.Second
)

var navLabelKeys = map[string]string{
	constants.RouteHome:            "nav.home",
	constants.RouteRequestDelivery: "nav.request_delivery",
	constants.RouteAgentDashboard:  "nav.agent_dashboard",
	constants.RouteContact:         "nav.contact",
	constants.RouteLogin:           "nav.login",
	constants.RouteSignup:          "nav.signup",
}

// GetConfig 获取前台全局配置
func (h *Handler) GetConfig(c *gin.Context) {
	locale := i18n.ResolveLocale(c)
	cacheKey := publicConfigCacheKey + locale

	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data := map[string]interface{}{
		"languages":          []string{i18n.LocaleEN, i18n.LocaleZH},
		"locale":             locale,
		"pricing_total_mode": service.QuoteFor("", h.Config.Pricing.TotalMode).TotalMode,
		"eta_minutes":        h.TrackingService.ETAMinutes(),
		"oauth": map[string]bool{
			constants.UserOAuthProviderGoogle: h.Config.OAuth.Google.Enabled,
			constants.UserOAuthProviderApple:  h.Config.OAuth.Apple.Enabled,
		},
	}
	if h.CaptchaService != nil {
		data["captcha"] = h.CaptchaService.PublicSetting()
	}

	if err := cache.SetJSON(c.Request.Context(), cacheKey, data, publicConfigCacheTTL); err != nil {
		requestLog(c).Warnw("public_config_cache_set_failed", "error", err)
	}
	response.Success(c, data)
}

// GetNavigation 按登录状态返回导航栏
func (h *Handler) GetNavigation(c *gin.Context) {
	nav := h.NavigationService.Navigation(getSession(c))
	locale := i18n.ResolveLocale(c)
	localize := func(items []service.NavItem) {
		for i := range items {
			if key, ok := navLabelKeys[items[i].Route]; ok {
				items[i].Label = i18n.T(locale, key)
			}
		}
	}
	localize(nav.Items)
	localize(nav.AuthLinks)
	response.Success(c, nav)
}

// ResolveRoute 判断页面能否进入及跳转目标，仅供前端参考
func (h *Handler) ResolveRoute(c *gin.Context) {
	resolution, err := h.NavigationService.ResolveRoute(c.Query("path"), getSession(c))
	if err != nil {
		respondError(c, response.CodeInternal, "error.route_resolve_failed", err)
		return
	}
	response.Success(c, resolution)
}

// GetContact 联系与帮助
func (h *Handler) GetContact(c *gin.Context) {
	locale := i18n.ResolveLocale(c)
	response.Success(c, gin.H{
		"title":       i18n.T(locale, "contact.title"),
		"description": i18n.T(locale, "contact.description"),
		"channels": []string{
			i18n.T(locale, "contact.phone"),
			i18n.T(locale, "contact.chat"),
			i18n.T(locale, "contact.email"),
			i18n.T(locale, "contact.faq"),
		},
	})
}
