package public

import (
	"github.com/gobox-app/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAgentDashboard 当前用户取件单状态统计
func (h *Handler) GetAgentDashboard(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	dashboard, err := h.AgentDashboardService.Overview(session)
	if err != nil {
		respondWithMappedError(c, err, deliveryQueryErrorRules, response.CodeInternal, "error.dashboard_fetch_failed")
		return
	}
	response.Success(c, dashboard)
}
