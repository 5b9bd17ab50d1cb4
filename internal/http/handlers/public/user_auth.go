package public

import (
	"github.com/gobox-app/internal/constants"
	handlershared "github.com/gobox-app/internal/http/handlers/shared"
	"github.com/gobox-app/internal/http/response"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
)

// UserSignupRequest 注册请求
type UserSignupRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	DisplayName    string                `json:"display_name"`
	AccountType    string                `json:"account_type"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserSignup 用户注册，成功后即为登录状态
func (h *Handler) UserSignup(c *gin.Context) {
	var req UserSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, ok := h.verifyCaptcha(c, constants.CaptchaSceneSignup, req.CaptchaPayload); !ok {
		return
	}

	result, err := h.UserAuthService.Signup(service.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		AccountType: req.AccountType,
	})
	if err != nil {
		respondSignupError(c, err)
		return
	}

	h.recordUserLogin(c, result.User.Email, result.User.ID, constants.LoginLogStatusSuccess, "", constants.LoginLogSourceWeb)
	notice := handlershared.Notice(c, "notice.signed_up_title", "", constants.NoticeSeverityNormal)
	response.SuccessWithNotice(c, notice, authPayload(result))
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	RememberMe     bool                  `json:"remember_me"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest, constants.LoginLogSourceWeb)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if reason, ok := h.verifyCaptcha(c, constants.CaptchaSceneLogin, req.CaptchaPayload); !ok {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, reason, constants.LoginLogSourceWeb)
		return
	}

	result, err := h.UserAuthService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, loginFailReason(err), constants.LoginLogSourceWeb)
		respondLoginError(c, err)
		return
	}

	h.recordUserLogin(c, result.User.Email, result.User.ID, constants.LoginLogStatusSuccess, "", constants.LoginLogSourceWeb)
	notice := handlershared.Notice(c, "notice.logged_in_title", "", constants.NoticeSeverityNormal)
	response.SuccessWithNotice(c, notice, authPayload(result))
}

// UserSocialLoginRequest 第三方登录请求
type UserSocialLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// UserGoogleLogin Google 登录
func (h *Handler) UserGoogleLogin(c *gin.Context) {
	h.socialLogin(c, constants.UserOAuthProviderGoogle, constants.LoginLogSourceGoogle)
}

// UserAppleLogin Apple 登录
func (h *Handler) UserAppleLogin(c *gin.Context) {
	h.socialLogin(c, constants.UserOAuthProviderApple, constants.LoginLogSourceApple)
}

func (h *Handler) socialLogin(c *gin.Context, provider, source string) {
	var req UserSocialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, "", 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadRequest, source)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.SocialLogin(c.Request.Context(), provider, req.IDToken)
	if err != nil {
		h.recordUserLogin(c, "", 0, constants.LoginLogStatusFailed, loginFailReason(err), source)
		respondSocialLoginError(c, err)
		return
	}

	h.recordUserLogin(c, result.User.Email, result.User.ID, constants.LoginLogStatusSuccess, "", source)
	notice := handlershared.Notice(c, "notice.logged_in_title", "", constants.NoticeSeverityNormal)
	response.SuccessWithNotice(c, notice, authPayload(result))
}

// UserLogout 退出登录，当前及更早签发的 Token 全部失效
func (h *Handler) UserLogout(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(c.Request.Context(), session.UserID()); err != nil {
		respondError(c, response.CodeInternal, "error.logout_failed", err)
		return
	}
	notice := handlershared.Notice(c, "notice.logged_out_title", "", constants.NoticeSeverityNormal)
	response.SuccessWithNotice(c, notice, gin.H{"logged_in": false})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(session.UserID())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return
	}
	response.Success(c, userPayload(user))
}

func (h *Handler) recordUserLogin(c *gin.Context, email string, userID uint, status, failReason, source string) {
	if h == nil || h.UserLoginLogService == nil {
		return
	}
	if err := h.UserLoginLogService.Record(service.LoginAttempt{
		UserID:     userID,
		Email:      email,
		Succeeded:  status == constants.LoginLogStatusSuccess,
		FailReason: failReason,
		Source:     source,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		RequestID:  c.GetString(response.RequestIDKey),
	}); err != nil {
		requestLog(c).Warnw("user_login_log_record_failed", "error", err)
	}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"display_name":  user.DisplayName,
		"account_type":  user.AccountType,
		"last_login_at": user.LastLoginAt,
	}
}

func authPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"user":       userPayload(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
