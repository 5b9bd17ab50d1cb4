package service

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/repository"
)

func TestUserLoginLogRecordNormalizesAttempt(t *testing.T) {
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(setupServiceDB(t)))
	svc.now = func() time.Time { return fixedNow }

	if err := svc.Record(LoginAttempt{UserID: 1, Email: " A@Example.com ", Succeeded: true, FailReason: "ignored"}); err != nil {
		t.Fatalf("record success failed: %v", err)
	}
	if err := svc.Record(LoginAttempt{
		UserID:     1,
		Email:      "a@example.com",
		FailReason: "Something Odd",
		Source:     "Google",
		UserAgent:  strings.Repeat("浏", maxLoginUserAgentRunes+10),
	}); err != nil {
		t.Fatalf("record failure failed: %v", err)
	}
	if err := svc.Record(LoginAttempt{Source: "facebook", FailReason: constants.LoginLogFailReasonOAuthInvalid}); err != nil {
		t.Fatalf("record anonymous failure failed: %v", err)
	}

	logs, total, err := svc.ListMine(memberSession(1), 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected 2 logs for user 1, got %d/%d", total, len(logs))
	}
	// 按 id 倒序
	failed, success := logs[0], logs[1]
	if success.Email != "a@example.com" || success.Status != constants.LoginLogStatusSuccess || success.FailReason != "" || success.LoginSource != constants.LoginLogSourceWeb {
		t.Fatalf("unexpected success log %+v", success)
	}
	if !success.CreatedAt.Equal(fixedNow) {
		t.Fatalf("created_at should come from the service clock, got %s", success.CreatedAt)
	}
	if failed.Status != constants.LoginLogStatusFailed || failed.FailReason != constants.LoginLogFailReasonInternalError || failed.LoginSource != constants.LoginLogSourceGoogle {
		t.Fatalf("unexpected failed log %+v", failed)
	}
	if utf8.RuneCountInString(failed.UserAgent) != maxLoginUserAgentRunes {
		t.Fatalf("user agent should be truncated, got %d runes", utf8.RuneCountInString(failed.UserAgent))
	}
}

func TestUserLoginLogListMineRequiresSession(t *testing.T) {
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(setupServiceDB(t)))
	if _, _, err := svc.ListMine(LoggedOut(), 1, 10); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestUserLoginLogListMineClampsPageSize(t *testing.T) {
	svc := NewUserLoginLogService(repository.NewUserLoginLogRepository(setupServiceDB(t)))
	for i := 0; i < 3; i++ {
		if err := svc.Record(LoginAttempt{UserID: 4, Email: "p@example.com", Succeeded: true}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	logs, total, err := svc.ListMine(memberSession(4), 1, 1000)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(logs) != 3 {
		t.Fatalf("expected all 3 logs within the clamped page, got %d/%d", total, len(logs))
	}
}
