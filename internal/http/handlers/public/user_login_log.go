package public

import (
	handlershared "github.com/gobox-app/internal/http/handlers/shared"
	"github.com/gobox-app/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMyLoginLogs 获取当前用户登录日志
func (h *Handler) GetMyLoginLogs(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)
	logs, total, err := h.UserLoginLogService.ListMine(session, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, deliveryQueryErrorRules, response.CodeInternal, "error.user_login_log_fetch_failed")
		return
	}
	response.SuccessWithPage(c, logs, handlershared.BuildPagination(page, pageSize, total))
}
