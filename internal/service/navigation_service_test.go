package service

import (
	"testing"

	"github.com/gobox-app/internal/authz"
	"github.com/gobox-app/internal/constants"
)

func setupNavigationService(t *testing.T) *NavigationService {
	t.Helper()
	authzService, err := authz.NewService(setupServiceDB(t))
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapRoutePolicies(); err != nil {
		t.Fatalf("bootstrap policies failed: %v", err)
	}
	return NewNavigationService(authzService)
}

func navRoutes(items []NavItem) []string {
	routes := make([]string, 0, len(items))
	for _, item := range items {
		routes = append(routes, item.Route)
	}
	return routes
}

func TestNavigationDependsOnSession(t *testing.T) {
	svc := NewNavigationService(nil)

	guest := svc.Navigation(LoggedOut())
	if guest.LoggedIn || guest.User != nil {
		t.Fatalf("guest navigation should be logged out: %+v", guest)
	}
	for _, route := range navRoutes(guest.Items) {
		if route == constants.RouteAgentDashboard {
			t.Fatalf("guest must not see agent dashboard")
		}
	}
	if len(guest.AuthLinks) != 2 {
		t.Fatalf("guest should get login and signup links, got %+v", guest.AuthLinks)
	}

	member := svc.Navigation(memberSession(9))
	routes := navRoutes(member.Items)
	if len(routes) != 4 || routes[2] != constants.RouteAgentDashboard {
		t.Fatalf("unexpected member navigation %v", routes)
	}
	if len(member.AuthLinks) != 0 || member.User == nil || member.User.ID != 9 {
		t.Fatalf("unexpected member auth state %+v", member)
	}
}

func TestResolveRoute(t *testing.T) {
	svc := setupNavigationService(t)

	cases := []struct {
		name     string
		path     string
		session  *Session
		route    string
		allowed  bool
		redirect string
	}{
		{"unknown path", "/nope", LoggedOut(), constants.RouteNotFound, true, ""},
		{"guest home", "/", LoggedOut(), constants.RouteHome, true, ""},
		{"guest pricing", "/delivery-pricing", LoggedOut(), constants.RouteDeliveryPricing, true, ""},
		{"guest tracking", "/delivery-tracking", LoggedOut(), constants.RouteDeliveryTracking, false, constants.RouteLogin},
		{"guest request", "/request-delivery/", LoggedOut(), constants.RouteRequestDelivery, false, constants.RouteLogin},
		{"member request", "/request-delivery", memberSession(1), constants.RouteRequestDelivery, true, ""},
		{"member dashboard", "/agent-dashboard", memberSession(1), constants.RouteAgentDashboard, true, ""},
		{"member login", "/login", memberSession(1), constants.RouteLogin, false, constants.RouteHome},
		{"member signup", "/signup", memberSession(1), constants.RouteSignup, false, constants.RouteHome},
		{"guest login", "/login", LoggedOut(), constants.RouteLogin, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ResolveRoute(tc.path, tc.session)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if got.Route != tc.route || got.Allowed != tc.allowed || got.Redirect != tc.redirect {
				t.Fatalf("got %+v want route=%s allowed=%v redirect=%s", got, tc.route, tc.allowed, tc.redirect)
			}
		})
	}
}
