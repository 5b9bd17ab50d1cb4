package service

import (
	"fmt"

	"github.com/gobox-app/internal/authz"
	"github.com/gobox-app/internal/constants"
)

// RouteAuthorizer 页面访问判定
type RouteAuthorizer interface {
	CanView(role, route string) (bool, error)
}

// NavItem 导航项
type NavItem struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// Navigation 导航栏读模型
type Navigation struct {
	LoggedIn  bool         `json:"logged_in"`
	User      *SessionUser `json:"user,omitempty"`
	Items     []NavItem    `json:"items"`
	AuthLinks []NavItem    `json:"auth_links"`
}

// RouteResolution 路由解析结果；仅供前端参考，不替代接口鉴权
type RouteResolution struct {
	Route    string `json:"route"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

type navEntry struct {
	item        NavItem
	membersOnly bool
}

var navEntries = []navEntry{
	{item: NavItem{Label: "Home", Route: constants.RouteHome}},
	{item: NavItem{Label: "Request Delivery", Route: constants.RouteRequestDelivery}},
	{item: NavItem{Label: "Agent Dashboard", Route: constants.RouteAgentDashboard}, membersOnly: true},
	{item: NavItem{Label: "Contact/Help", Route: constants.RouteContact}},
}

var guestOnlyRoutes = map[string]struct{}{
	constants.RouteLogin:  {},
	constants.RouteSignup: {},
}

var knownRoutes = map[string]struct{}{
	constants.RouteHome:             {},
	constants.RouteRequestDelivery:  {},
	constants.RouteAgentDashboard:   {},
	constants.RouteDeliveryPricing:  {},
	constants.RouteDeliveryTracking: {},
	constants.RouteLogin:            {},
	constants.RouteSignup:           {},
	constants.RouteContact:          {},
}

// NavigationService 导航与路由守卫
type NavigationService struct {
	authorizer RouteAuthorizer
}

// NewNavigationService 创建导航服务
func NewNavigationService(authorizer RouteAuthorizer) *NavigationService {
	return &NavigationService{authorizer: authorizer}
}

// SessionRole 会话对应的授权主体
func SessionRole(session *Session) string {
	if session.IsLoggedIn() {
		return constants.RoleMember
	}
	return constants.RoleGuest
}

// Navigation 按登录状态生成导航栏
func (s *NavigationService) Navigation(session *Session) Navigation {
	loggedIn := session.IsLoggedIn()
	items := make([]NavItem, 0, len(navEntries))
	for _, entry := range navEntries {
		if entry.membersOnly && !loggedIn {
			continue
		}
		items = append(items, entry.item)
	}
	nav := Navigation{
		LoggedIn:  loggedIn,
		User:      session.User(),
		Items:     items,
		AuthLinks: []NavItem{},
	}
	if !loggedIn {
		nav.AuthLinks = []NavItem{
			{Label: "Login", Route: constants.RouteLogin},
			{Label: "Sign Up", Route: constants.RouteSignup},
		}
	}
	return nav
}

// ResolveRoute 判断当前会话能否进入页面，以及不能进入时的跳转目标
func (s *NavigationService) ResolveRoute(path string, session *Session) (RouteResolution, error) {
	route := authz.NormalizeObject(path)
	if _, ok := knownRoutes[route]; !ok {
		return RouteResolution{Route: constants.RouteNotFound, Allowed: true}, nil
	}
	loggedIn := session.IsLoggedIn()
	if _, ok := guestOnlyRoutes[route]; ok && loggedIn {
		return RouteResolution{Route: route, Redirect: constants.RouteHome}, nil
	}
	if s.authorizer == nil {
		return RouteResolution{}, fmt.Errorf("route authorizer unavailable")
	}
	allowed, err := s.authorizer.CanView(SessionRole(session), route)
	if err != nil {
		return RouteResolution{}, err
	}
	if allowed {
		return RouteResolution{Route: route, Allowed: true}, nil
	}
	redirect := constants.RouteHome
	if !loggedIn {
		redirect = constants.RouteLogin
	}
	return RouteResolution{Route: route, Redirect: redirect}, nil
}
