package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/repository"
)

const (
	maxLoginUserAgentRunes = 512
	defaultLoginLogPage    = 20
	maxLoginLogPage        = 100
)

var loginSources = map[string]struct{}{
	constants.LoginLogSourceWeb:    {},
	constants.LoginLogSourceGoogle: {},
	constants.LoginLogSourceApple:  {},
}

var loginFailReasons = map[string]struct{}{
	constants.LoginLogFailReasonBadRequest:         {},
	constants.LoginLogFailReasonCaptchaRequired:    {},
	constants.LoginLogFailReasonCaptchaInvalid:     {},
	constants.LoginLogFailReasonInvalidEmail:       {},
	constants.LoginLogFailReasonInvalidCredentials: {},
	constants.LoginLogFailReasonUserDisabled:       {},
	constants.LoginLogFailReasonOAuthInvalid:       {},
	constants.LoginLogFailReasonOAuthDisabled:      {},
	constants.LoginLogFailReasonInternalError:      {},
}

// LoginAttempt 一次邮箱或第三方登录尝试
type LoginAttempt struct {
	UserID     uint
	Email      string
	Succeeded  bool
	FailReason string
	Source     string
	ClientIP   string
	UserAgent  string
	RequestID  string
}

// UserLoginLogService 登录记录，供家长在个人页查看最近的登录
type UserLoginLogService struct {
	repo repository.UserLoginLogRepository
	now  func() time.Time
}

// NewUserLoginLogService 创建登录记录服务
func NewUserLoginLogService(repo repository.UserLoginLogRepository) *UserLoginLogService {
	return &UserLoginLogService{repo: repo, now: time.Now}
}

// Record 写入一条登录记录；未知来源记为 web，未知失败原因记为 internal_error
func (s *UserLoginLogService) Record(attempt LoginAttempt) error {
	if s == nil || s.repo == nil {
		return nil
	}
	email := strings.TrimSpace(attempt.Email)
	if normalized, err := NormalizeEmail(email); err == nil {
		email = normalized
	}
	entry := &models.UserLoginLog{
		UserID:      attempt.UserID,
		Email:       email,
		Status:      constants.LoginLogStatusFailed,
		FailReason:  pickKnown(loginFailReasons, attempt.FailReason, constants.LoginLogFailReasonInternalError),
		ClientIP:    strings.TrimSpace(attempt.ClientIP),
		UserAgent:   truncateRunes(strings.TrimSpace(attempt.UserAgent), maxLoginUserAgentRunes),
		LoginSource: pickKnown(loginSources, attempt.Source, constants.LoginLogSourceWeb),
		RequestID:   strings.TrimSpace(attempt.RequestID),
		CreatedAt:   s.now(),
	}
	if attempt.Succeeded {
		entry.Status = constants.LoginLogStatusSuccess
		entry.FailReason = ""
	}
	return s.repo.Create(entry)
}

// ListMine 当前会话用户的登录记录，新的在前
func (s *UserLoginLogService) ListMine(session *Session, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if !session.IsLoggedIn() {
		return nil, 0, ErrMissingInput
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultLoginLogPage
	}
	if pageSize > maxLoginLogPage {
		pageSize = maxLoginLogPage
	}
	items, total, err := s.repo.ListByUser(session.UserID(), page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRemoteOperation, err)
	}
	return items, total, nil
}

func pickKnown(known map[string]struct{}, raw, fallback string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := known[value]; ok {
		return value
	}
	return fallback
}

func truncateRunes(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}
