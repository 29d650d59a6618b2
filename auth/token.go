package auth

import (
	"fmt"
	"slices"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Scopes understood by the API.
const (
	ScopeResolve    = "resolve"
	ScopeCacheWrite = "cache:write"
)

// Claims is the token payload.
type Claims struct {
	gojwt.RegisteredClaims
	Scopes []string `json:"scopes,omitempty"`
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// Service signs and verifies tokens with a shared secret.
type Service struct {
	cfg    Config
	method gojwt.SigningMethod
	parser *gojwt.Parser
}

// NewService creates a Service. cfg must carry a secret.
func NewService(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled() {
		return nil, fmt.Errorf("auth: secret is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	method := gojwt.GetSigningMethod(cfg.Method)
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{method.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(cfg.Audience))
	}
	return &Service{cfg: cfg, method: method, parser: gojwt.NewParser(opts...)}, nil
}

// Issue signs a token for subject. A zero ttl uses the configured default.
func (s *Service) Issue(subject string, ttl time.Duration, scopes ...string) (string, error) {
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
		Scopes: scopes,
	}
	if s.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{s.cfg.Audience}
	}

	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry, issuer and audience of token.
func (s *Service) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	return claims, nil
}
