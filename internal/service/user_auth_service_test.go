package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

func setupUserAuthService(t *testing.T, verifiers map[string]IDTokenVerifier) (*UserAuthService, repository.UserRepository) {
	t.Helper()
	cache.Use(nil, "")
	db := setupServiceDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewUserAuthService(config.Default(), userRepo, repository.NewUserIdentityRepository(db), verifiers)
	return svc, userRepo
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := setupUserAuthService(t, nil)

	signed, err := svc.Signup(SignupInput{Email: " Parent@Example.com ", Password: "Passw0rdX"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if signed.User.Email != "parent@example.com" || signed.User.DisplayName != "parent" || signed.User.AccountType != constants.AccountTypeStudent {
		t.Fatalf("unexpected user %+v", signed.User)
	}
	claims, err := svc.ParseUserJWT(signed.Token)
	if err != nil || claims.UserID != signed.User.ID {
		t.Fatalf("signup token invalid: claims=%+v err=%v", claims, err)
	}

	if _, err := svc.Signup(SignupInput{Email: "parent@example.com", Password: "Passw0rdX"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, err := svc.Login("parent@example.com", "wrong-pass", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "Passw0rdX", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	logged, err := svc.Login("PARENT@example.com", "Passw0rdX", true)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if hours := logged.ExpiresAt.Sub(time.Now()).Hours(); hours < 160 {
		t.Fatalf("remember me should extend expiry, got %.1f hours", hours)
	}
	if logged.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestSignupRejectsBadInput(t *testing.T) {
	svc, _ := setupUserAuthService(t, nil)

	if _, err := svc.Signup(SignupInput{Email: "not-an-email", Password: "Passw0rdX"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Signup(SignupInput{Email: "a@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := svc.Signup(SignupInput{Email: "a@example.com", Password: "Passw0rdX", AccountType: "admin"}); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected ErrInvalidAccountType, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, userRepo := setupUserAuthService(t, nil)
	signed, err := svc.Signup(SignupInput{Email: "d@example.com", Password: "Passw0rdX"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	signed.User.Status = constants.UserStatusDisabled
	if err := userRepo.Update(signed.User); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := svc.Login("d@example.com", "Passw0rdX", false); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, userRepo := setupUserAuthService(t, nil)
	signed, err := svc.Signup(SignupInput{Email: "out@example.com", Password: "Passw0rdX"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	claims, err := svc.ParseUserJWT(signed.Token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if err := svc.Logout(context.Background(), signed.User.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	user, err := userRepo.GetByID(signed.User.ID)
	if err != nil || user == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if !IsTokenRevoked(claims, user.TokenVersion, user.TokenInvalidBefore) {
		t.Fatalf("token issued before logout must be revoked")
	}
	if err := svc.Logout(context.Background(), 0); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

type fakeVerifier struct {
	identity *OIDCIdentity
	err      error
}

func (v fakeVerifier) Verify(context.Context, string) (*OIDCIdentity, error) {
	return v.identity, v.err
}

func TestSocialLoginCreatesThenReusesIdentity(t *testing.T) {
	verifier := &fakeVerifier{identity: &OIDCIdentity{Subject: "g-123", Email: "Kid@Example.com", EmailVerified: true, Name: "Kid"}}
	svc, _ := setupUserAuthService(t, map[string]IDTokenVerifier{constants.UserOAuthProviderGoogle: verifier})

	first, err := svc.SocialLogin(context.Background(), "google", "token")
	if err != nil {
		t.Fatalf("first social login failed: %v", err)
	}
	if first.User.Email != "kid@example.com" || first.User.DisplayName != "Kid" {
		t.Fatalf("unexpected user %+v", first.User)
	}

	// 同一 subject 即便邮箱变化也回到同一用户
	verifier.identity = &OIDCIdentity{Subject: "g-123", Email: "changed@example.com", EmailVerified: true}
	second, err := svc.SocialLogin(context.Background(), "google", "token")
	if err != nil {
		t.Fatalf("second social login failed: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected same user, got %d and %d", first.User.ID, second.User.ID)
	}

	if _, err := svc.SocialLogin(context.Background(), "apple", "token"); !errors.Is(err, ErrOAuthDisabled) {
		t.Fatalf("expected ErrOAuthDisabled for unconfigured provider, got %v", err)
	}
}

func TestSocialLoginLinksExistingEmailAccount(t *testing.T) {
	verifier := &fakeVerifier{identity: &OIDCIdentity{Subject: "a-1", Email: "family@example.com", EmailVerified: true}}
	svc, _ := setupUserAuthService(t, map[string]IDTokenVerifier{constants.UserOAuthProviderApple: verifier})

	signed, err := svc.Signup(SignupInput{Email: "family@example.com", Password: "Passw0rdX"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	social, err := svc.SocialLogin(context.Background(), "apple", "token")
	if err != nil {
		t.Fatalf("social login failed: %v", err)
	}
	if social.User.ID != signed.User.ID {
		t.Fatalf("expected link to existing account")
	}

	verifier.identity = &OIDCIdentity{Subject: "a-2", Email: "new@example.com", EmailVerified: false}
	if _, err := svc.SocialLogin(context.Background(), "apple", "token"); !errors.Is(err, ErrOAuthEmailMissing) {
		t.Fatalf("expected unverified email to be rejected, got %v", err)
	}
}

func encodeJWK(kid string, key *rsa.PublicKey) map[string]string {
	return map[string]string{
		"kid": kid,
		"kty": "RSA",
		"alg": "RS256",
		"use": "sig",
		"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key failed: %v", err)
	}
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{encodeJWK("k1", &key.PublicKey)},
		})
	}))
	defer server.Close()

	verifier := NewJWKSVerifier(config.OAuthProviderConfig{
		Enabled:   true,
		ClientIDs: []string{"gobox-web"},
		Issuers:   []string{"https://accounts.google.com"},
		JWKSURL:   server.URL,
	})
	now := time.Now()
	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss":            "https://accounts.google.com",
			"aud":            "gobox-web",
			"sub":            "sub-1",
			"email":          "kid@example.com",
			"email_verified": "true",
			"exp":            now.Add(time.Hour).Unix(),
			"iat":            now.Unix(),
		}
	}

	identity, err := verifier.Verify(context.Background(), signIDToken(t, key, "k1", base()))
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.Subject != "sub-1" || !identity.EmailVerified || identity.Email != "kid@example.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if _, err := verifier.Verify(context.Background(), signIDToken(t, key, "k1", base())); err != nil {
		t.Fatalf("second verify failed: %v", err)
	}
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Fatalf("expected jwks to be cached, fetched %d times", got)
	}

	invalid := map[string]jwt.MapClaims{
		"wrong issuer":   func() jwt.MapClaims { c := base(); c["iss"] = "https://evil.example"; return c }(),
		"wrong audience": func() jwt.MapClaims { c := base(); c["aud"] = "other-app"; return c }(),
		"expired":        func() jwt.MapClaims { c := base(); c["exp"] = now.Add(-time.Hour).Unix(); return c }(),
		"no subject":     func() jwt.MapClaims { c := base(); delete(c, "sub"); return c }(),
	}
	for name, claims := range invalid {
		if _, err := verifier.Verify(context.Background(), signIDToken(t, key, "k1", claims)); !errors.Is(err, ErrOAuthTokenInvalid) {
			t.Fatalf("%s: expected ErrOAuthTokenInvalid, got %v", name, err)
		}
	}

	other, _ := rsa.GenerateKey(rand.Reader, 2048)
	if _, err := verifier.Verify(context.Background(), signIDToken(t, other, "k1", base())); !errors.Is(err, ErrOAuthTokenInvalid) {
		t.Fatalf("expected signature failure, got %v", err)
	}
	if _, err := verifier.Verify(context.Background(), ""); !errors.Is(err, ErrOAuthTokenInvalid) {
		t.Fatalf("expected empty token failure, got %v", err)
	}
}
