package public

import (
	"io"

	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/i18n"

	"github.com/gin-gonic/gin"
)

// GetLatestDelivery 当前用户最近一条取件单的追踪视图
func (h *Handler) GetLatestDelivery(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	view, err := h.TrackingService.Latest(c.Request.Context(), session)
	if err != nil {
		respondWithMappedError(c, err, deliveryQueryErrorRules, response.CodeInternal, "error.tracking_fetch_failed")
		return
	}
	if view.CallToAction != nil {
		view.CallToAction.Label = i18n.T(i18n.ResolveLocale(c), "tracking.cta")
	}
	response.Success(c, view)
}

// StreamLatestDelivery 以 SSE 推送时钟与预计到达倒计时
// 客户端断开即停止两个定时任务，之后不再写出事件
func (h *Handler) StreamLatestDelivery(c *gin.Context) {
	if _, ok := requireSession(c); !ok {
		return
	}
	ctx := c.Request.Context()
	events, stop := h.TrackingService.Watch(ctx)
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event)
			return true
		}
	})
	requestLog(c).Debugw("tracking_stream_closed")
}
