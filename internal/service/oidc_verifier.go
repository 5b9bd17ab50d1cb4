package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gobox-app/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultJWKSTTL     = time.Hour
	defaultJWKSTimeout = 5 * time.Second
)

// OIDCIdentity 第三方 ID Token 中的身份
type OIDCIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IDTokenVerifier 校验第三方 ID Token
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*OIDCIdentity, error)
}

type oidcClaims struct {
	Email         string      `json:"email"`
	EmailVerified interface{} `json:"email_verified"` // Apple 返回字符串 "true"
	Name          string      `json:"name"`
	jwt.RegisteredClaims
}

type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSVerifier 基于 JWKS 公钥的 RS256 ID Token 校验器
type JWKSVerifier struct {
	jwksURL  string
	issuers  []string
	audience []string
	ttl      time.Duration
	client   *http.Client
	now      func() time.Time

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewJWKSVerifier 按提供方配置创建校验器
func NewJWKSVerifier(cfg config.OAuthProviderConfig) *JWKSVerifier {
	ttl := time.Duration(cfg.JWKSTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultJWKSTTL
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultJWKSTimeout
	}
	return &JWKSVerifier{
		jwksURL:  strings.TrimSpace(cfg.JWKSURL),
		issuers:  trimNonEmpty(cfg.Issuers),
		audience: trimNonEmpty(cfg.ClientIDs),
		ttl:      ttl,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// Verify 校验签名、签发方、受众与有效期
func (v *JWKSVerifier) Verify(ctx context.Context, rawToken string) (*OIDCIdentity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, ErrOAuthTokenInvalid
	}
	if len(v.audience) == 0 {
		return nil, ErrOAuthDisabled
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	claims := &oidcClaims{}
	_, err := parser.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		return v.key(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthTokenInvalid, err)
	}
	if !matchAny(claims.Issuer, v.issuers) {
		return nil, fmt.Errorf("%w: issuer %q", ErrOAuthTokenInvalid, claims.Issuer)
	}
	if !audienceAllowed(claims.Audience, v.audience) {
		return nil, fmt.Errorf("%w: audience", ErrOAuthTokenInvalid)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: subject", ErrOAuthTokenInvalid)
	}
	return &OIDCIdentity{
		Subject:       claims.Subject,
		Email:         strings.TrimSpace(claims.Email),
		EmailVerified: parseEmailVerified(claims.EmailVerified),
		Name:          strings.TrimSpace(claims.Name),
	}, nil
}

// key 按 kid 取公钥；未命中时强制刷新一次以适应提供方轮换
func (v *JWKSVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fresh := v.keys != nil && v.now().Sub(v.fetchedAt) < v.ttl
	if fresh {
		if key, ok := v.keys[kid]; ok {
			return key, nil
		}
	}
	keys, err := v.fetch(ctx)
	if err != nil {
		return nil, err
	}
	v.keys = keys
	v.fetchedAt = v.now()
	if key, ok := keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("jwks key %q not found", kid)
}

func (v *JWKSVerifier) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	if v.jwksURL == "" {
		return nil, errors.New("jwks url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}
	var body struct {
		Keys []jsonWebKey `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(body.Keys))
	for _, jwk := range body.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		key, err := parseRSAPublicKey(jwk)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = key
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks contains no usable rsa keys")
	}
	return keys, nil
}

func parseRSAPublicKey(jwk jsonWebKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, err
	}
	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, errors.New("invalid rsa exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: int(e.Int64())}, nil
}

func parseEmailVerified(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

func audienceAllowed(audience jwt.ClaimStrings, allowed []string) bool {
	for _, aud := range audience {
		if matchAny(aud, allowed) {
			return true
		}
	}
	return false
}

func matchAny(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
