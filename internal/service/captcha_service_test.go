package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
)

func TestCaptchaDisabledScenesPass(t *testing.T) {
	svc := NewCaptchaService(config.Default().Captcha)
	if svc.SceneEnabled(constants.CaptchaSceneLogin) {
		t.Fatalf("default config should not require captcha")
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled scene should pass, got %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("expected ErrCaptchaConfigInvalid without image provider, got %v", err)
	}
}

func TestCaptchaImageScene(t *testing.T) {
	cfg := config.Default().Captcha
	cfg.Provider = "IMAGE"
	cfg.Scenes.Signup = true
	svc := NewCaptchaService(cfg)

	public := svc.PublicSetting()
	if public.Provider != constants.CaptchaProviderImage || !public.Scenes[constants.CaptchaSceneSignup] || public.Scenes[constants.CaptchaSceneLogin] {
		t.Fatalf("unexpected public setting %+v", public)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("unexpected challenge %+v", challenge)
	}

	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong!"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected ErrCaptchaInvalid, got %v", err)
	}

	second, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	answer := svc.imageStore().Get(second.CaptchaID, false)
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{CaptchaID: second.CaptchaID, CaptchaCode: answer}); err != nil {
		t.Fatalf("expected correct answer to pass, got %v", err)
	}
	// 一次性使用
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{CaptchaID: second.CaptchaID, CaptchaCode: answer}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected reused captcha to fail, got %v", err)
	}
}
