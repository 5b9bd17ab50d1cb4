package service

import (
	"fmt"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/repository"
)

// AgentFeature 代理人面板功能介绍
type AgentFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AgentDashboard 代理人面板
type AgentDashboard struct {
	Total    int64                    `json:"total"`
	ByStatus []repository.StatusCount `json:"by_status"`
	Features []AgentFeature           `json:"features"`
}

var agentFeatures = []AgentFeature{
	{Title: "Real-time Requests", Description: "See new delivery requests from parents in your area."},
	{Title: "Route Planning", Description: "Group pickups heading to the same school."},
	{Title: "Earnings Overview", Description: "Track completed deliveries and payouts."},
}

// AgentDashboardService 代理人面板
type AgentDashboardService struct {
	repo repository.DeliveryRequestRepository
}

// NewAgentDashboardService 创建代理人面板服务
func NewAgentDashboardService(repo repository.DeliveryRequestRepository) *AgentDashboardService {
	return &AgentDashboardService{repo: repo}
}

// Overview 当前用户各状态取件单数量；所有已知状态都会出现，数量可为 0
func (s *AgentDashboardService) Overview(session *Session) (*AgentDashboard, error) {
	if !session.IsLoggedIn() {
		return nil, ErrMissingInput
	}
	rows, err := s.repo.CountByStatus(session.UserID())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteOperation, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	known := []string{
		constants.DeliveryStatusConfirmed,
		constants.DeliveryStatusAgentAssigned,
		constants.DeliveryStatusPickedUp,
		constants.DeliveryStatusInTransit,
		constants.DeliveryStatusArrivingAtSchool,
		constants.DeliveryStatusDelivered,
	}
	dashboard := &AgentDashboard{
		ByStatus: make([]repository.StatusCount, 0, len(rows)),
		Features: append([]AgentFeature(nil), agentFeatures...),
	}
	seen := make(map[string]struct{}, len(known))
	for _, status := range known {
		seen[status] = struct{}{}
		dashboard.ByStatus = append(dashboard.ByStatus, repository.StatusCount{Status: status, Total: counts[status]})
		dashboard.Total += counts[status]
	}
	// 调度方可能推送未知状态
	for _, row := range rows {
		if _, ok := seen[row.Status]; ok {
			continue
		}
		dashboard.ByStatus = append(dashboard.ByStatus, row)
		dashboard.Total += row.Total
	}
	return dashboard, nil
}
