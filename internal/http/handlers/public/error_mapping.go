package public

import (
	"errors"

	"github.com/gobox-app/internal/constants"
	handlershared "github.com/gobox-app/internal/http/handlers/shared"
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/i18n"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, key: "error.captcha_config_invalid"},
}

var authCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

var signupErrorRules = []mappedHandlerError{
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
	{target: service.ErrInvalidAccountType, code: response.CodeBadRequest, key: "error.account_type_invalid"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
}

var socialLoginErrorRules = []mappedHandlerError{
	{target: service.ErrOAuthDisabled, code: response.CodeBadRequest, key: "error.oauth_disabled"},
	{target: service.ErrOAuthTokenInvalid, code: response.CodeUnauthorized, key: "error.oauth_token_invalid"},
	{target: service.ErrOAuthEmailMissing, code: response.CodeBadRequest, key: "error.oauth_email_missing"},
}

var deliveryQueryErrorRules = []mappedHandlerError{
	{target: service.ErrMissingInput, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

func respondSignupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrWeakPassword) {
		handlershared.RespondWeakPassword(c, err)
		return
	}
	respondWithMappedError(c, err, concatMappedHandlerErrors(authCommonErrorRules, signupErrorRules), response.CodeInternal, "error.signup_failed")
}

func respondLoginError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(authCommonErrorRules, loginErrorRules), response.CodeInternal, "error.login_failed")
}

func respondSocialLoginError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(authCommonErrorRules, socialLoginErrorRules), response.CodeInternal, "error.login_failed")
}

// loginFailReason 登录失败原因，用于登录日志
func loginFailReason(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return constants.LoginLogFailReasonInvalidEmail
	case errors.Is(err, service.ErrInvalidCredentials):
		return constants.LoginLogFailReasonInvalidCredentials
	case errors.Is(err, service.ErrUserDisabled):
		return constants.LoginLogFailReasonUserDisabled
	case errors.Is(err, service.ErrOAuthDisabled):
		return constants.LoginLogFailReasonOAuthDisabled
	case errors.Is(err, service.ErrOAuthTokenInvalid), errors.Is(err, service.ErrOAuthEmailMissing):
		return constants.LoginLogFailReasonOAuthInvalid
	default:
		return constants.LoginLogFailReasonInternalError
	}
}

// respondDeliverySubmitError 提交失败统一带 notice：校验失败附字段文案，外部调用失败为 destructive
func respondDeliverySubmitError(c *gin.Context, err error) {
	locale := i18n.ResolveLocale(c)
	var draftErr *service.DraftValidationError
	switch {
	case errors.As(err, &draftErr):
		fields := make(gin.H, len(draftErr.Fields))
		for field, key := range draftErr.Fields {
			fields[field] = i18n.T(locale, key)
		}
		notice := handlershared.Notice(c, "notice.error_title", "error.delivery_draft_invalid", constants.NoticeSeverityDestructive)
		response.ErrorWithNotice(c, response.CodeBadRequest, notice, gin.H{"fields": fields})
	case errors.Is(err, service.ErrMissingInput):
		notice := handlershared.Notice(c, "notice.error_title", "notice.missing_input_description", constants.NoticeSeverityDestructive)
		response.ErrorWithNotice(c, response.CodeBadRequest, notice, nil)
	case errors.Is(err, service.ErrSubmissionInFlight):
		respondError(c, response.CodeTooManyRequests, "error.delivery_submit_in_flight", nil)
	default:
		requestLog(c).Errorw("delivery_submit_failed", "error", err)
		notice := handlershared.Notice(c, "notice.error_title", "notice.submit_failed_description", constants.NoticeSeverityDestructive)
		response.ErrorWithNotice(c, response.CodeInternal, notice, nil)
	}
}
