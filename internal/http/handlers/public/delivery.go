package public

import (
	"strings"

	"github.com/gobox-app/internal/constants"
	handlershared "github.com/gobox-app/internal/http/handlers/shared"
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
)

// formTokenHeader 标识一次表单实例，同一实例同时只允许一个提交
const formTokenHeader = "X-Form-Token"

// SubmitDeliveryRequest 提交取件单请求
type SubmitDeliveryRequest struct {
	service.DeliveryDraftInput
	FormToken string `json:"form_token"`
}

// GetDeliveryOptions 表单可选项（学校、时间段、箱型）
func (h *Handler) GetDeliveryOptions(c *gin.Context) {
	response.Success(c, h.DeliveryRequestService.FormOptions())
}

// GetPricing 全部价目
func (h *Handler) GetPricing(c *gin.Context) {
	fees := service.QuoteFor("", h.Config.Pricing.TotalMode)
	response.Success(c, gin.H{
		"tiers":        service.PricingTiers(),
		"service_fee":  fees.ServiceFee,
		"delivery_fee": fees.DeliveryFee,
		"total_mode":   fees.TotalMode,
		"eta_minutes":  h.TrackingService.ETAMinutes(),
	})
}

// GetPricingQuote 单个箱型报价；未知箱型按 Books 计价
func (h *Handler) GetPricingQuote(c *gin.Context) {
	response.Success(c, service.QuoteFor(c.Query("box_type"), h.Config.Pricing.TotalMode))
}

// PreviewDelivery 校验草稿并返回报价，不落库
func (h *Handler) PreviewDelivery(c *gin.Context) {
	var req service.DeliveryDraftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.DeliveryRequestService.Preview(&req)
	if err != nil {
		respondDeliverySubmitError(c, err)
		return
	}
	response.Success(c, result)
}

// SubmitDelivery 以当前用户身份创建取件单
func (h *Handler) SubmitDelivery(c *gin.Context) {
	session := getSession(c)
	var req SubmitDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	formToken := strings.TrimSpace(c.GetHeader(formTokenHeader))
	if formToken == "" {
		formToken = req.FormToken
	}

	result, err := h.DeliveryRequestService.Submit(c.Request.Context(), session, &req.DeliveryDraftInput, formToken)
	if err != nil {
		respondDeliverySubmitError(c, err)
		return
	}

	requestLog(c).Infow("delivery_request_submitted",
		"request_no", result.Request.RequestNo,
		"user_id", result.Request.UserID,
		"box_type", result.Request.BoxType,
	)
	notice := handlershared.Notice(c, "notice.request_submitted_title", "notice.request_submitted_description", constants.NoticeSeverityNormal)
	response.SuccessWithNotice(c, notice, result)
}

// ListMyDeliveries 当前用户取件单列表
func (h *Handler) ListMyDeliveries(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	items, total, err := h.DeliveryRequestService.ListMine(session, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, deliveryQueryErrorRules, response.CodeInternal, "error.delivery_fetch_failed")
		return
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(page, pageSize, total))
}
