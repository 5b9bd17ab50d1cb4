package authz

import (
	"fmt"

	"github.com/gobox-app/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Routes   []string
}

// RouteRoleSeeds 页面访问矩阵：访客可浏览公开页，会员额外可访问下单、追踪与代理人面板
func RouteRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleGuest,
			Routes: []string{
				constants.RouteHome,
				constants.RouteDeliveryPricing,
				constants.RouteLogin,
				constants.RouteSignup,
				constants.RouteContact,
			},
		},
		{
			Role:     constants.RoleMember,
			Inherits: []string{constants.RoleGuest},
			Routes: []string{
				constants.RouteRequestDelivery,
				constants.RouteDeliveryTracking,
				constants.RouteAgentDashboard,
			},
		},
	}
}

// BootstrapRoutePolicies 补齐预置角色与策略，已存在的规则不会重复写入
func (s *Service) BootstrapRoutePolicies() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range RouteRoleSeeds() {
		if _, err := s.EnsureRole(seed.Role); err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, route := range seed.Routes {
			if err := s.GrantRolePolicy(seed.Role, route, ActionView); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
