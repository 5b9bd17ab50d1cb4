package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	identityRepo repository.UserIdentityRepository
	verifiers    map[string]IDTokenVerifier
	now          func() time.Time
}

// NewUserAuthService 创建用户认证服务；verifiers 以登录提供方为键，未配置的提供方视为关闭
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, identityRepo repository.UserIdentityRepository, verifiers map[string]IDTokenVerifier) *UserAuthService {
	if verifiers == nil {
		verifiers = map[string]IDTokenVerifier{}
	}
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		identityRepo: identityRepo,
		verifiers:    verifiers,
		now:          time.Now,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// SignupInput 注册输入
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
	AccountType string
}

// AuthResult 登录/注册结果
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// Signup 邮箱注册，成功即登录
func (s *UserAuthService) Signup(input SignupInput) (*AuthResult, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	accountType, err := normalizeAccountType(input.AccountType)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = resolveNicknameFromEmail(normalized)
	}
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		DisplayName:  displayName,
		AccountType:  accountType,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return s.issue(user, 0)
}

// Login 邮箱密码登录
func (s *UserAuthService) Login(email, password string, rememberMe bool) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	// 第三方注册用户没有密码
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	if err := s.touchLogin(user); err != nil {
		return nil, err
	}
	return s.issue(user, expireHours)
}

// SocialLogin Google / Apple ID Token 登录
// 先按 provider+subject 查绑定，再按邮箱关联已有账号，都没有则创建新用户
func (s *UserAuthService) SocialLogin(ctx context.Context, provider, idToken string) (*AuthResult, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	verifier, ok := s.verifiers[provider]
	if !ok || verifier == nil {
		return nil, ErrOAuthDisabled
	}
	identity, err := verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveSocialUser(provider, identity)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if err := s.touchLogin(user); err != nil {
		return nil, err
	}
	return s.issue(user, 0)
}

// Logout 递增 token 版本，已签发的 token 全部失效
func (s *UserAuthService) Logout(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrMissingInput
	}
	if _, err := s.userRepo.BumpTokenVersion(userID, s.now()); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return cache.DelUserAuthState(ctx, userID)
	}
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("user_auth_state_cache_set_failed", "user_id", userID, "error", err)
	}
	return nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserAuthService) resolveSocialUser(provider string, identity *OIDCIdentity) (*models.User, error) {
	bound, err := s.identityRepo.GetByProviderSubject(provider, identity.Subject)
	if err != nil {
		return nil, err
	}
	if bound != nil {
		user, err := s.userRepo.GetByID(bound.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	email, err := normalizeEmail(identity.Email)
	if err != nil {
		return nil, ErrOAuthEmailMissing
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// 未验证的邮箱不能用来创建账号
		if !identity.EmailVerified {
			return nil, ErrOAuthEmailMissing
		}
		now := s.now()
		displayName := identity.Name
		if displayName == "" {
			displayName = resolveNicknameFromEmail(email)
		}
		user = &models.User{
			Email:       email,
			DisplayName: displayName,
			AccountType: constants.AccountTypeStudent,
			Status:      constants.UserStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else if !identity.EmailVerified {
		return nil, ErrOAuthEmailMissing
	}

	if err := s.identityRepo.Create(&models.UserIdentity{
		UserID:   user.ID,
		Provider: provider,
		Subject:  identity.Subject,
		Email:    email,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserAuthService) touchLogin(user *models.User) error {
	now := s.now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	return s.userRepo.Update(user)
}

func (s *UserAuthService) issue(user *models.User, expireHours int) (*AuthResult, error) {
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// SessionFromUser 由用户模型构建会话
func SessionFromUser(user *models.User) *Session {
	if user == nil {
		return LoggedOut()
	}
	return LoggedIn(SessionUser{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AccountType: user.AccountType,
	})
}

// IsTokenRevoked token 版本或签发时间早于失效点时视为已吊销
func IsTokenRevoked(claims *UserJWTClaims, tokenVersion uint64, invalidBefore *time.Time) bool {
	if claims == nil {
		return true
	}
	if claims.TokenVersion != tokenVersion {
		return true
	}
	if invalidBefore == nil || claims.IssuedAt == nil {
		return false
	}
	return claims.IssuedAt.Time.Before(invalidBefore.Truncate(time.Second))
}

func normalizeAccountType(accountType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(accountType)) {
	case "", constants.AccountTypeStudent:
		return constants.AccountTypeStudent, nil
	case constants.AccountTypeAgent:
		return constants.AccountTypeAgent, nil
	default:
		return "", ErrInvalidAccountType
	}
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

func resolveNicknameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
