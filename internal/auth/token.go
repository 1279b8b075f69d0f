// Package auth verifies the bearer tokens that identify the calling user.
// Tokens are issued elsewhere; Issue exists for development and tests.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"draftwise/internal/config"
	"draftwise/internal/domain"
)

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// Verifier validates a token string and returns its claims.
type Verifier interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewTokenService creates a TokenService from the JWT config.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// Issue signs an access token for userID valid for ttl.
func (s *TokenService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	if s.cfg.Secret == "" {
		return "", eris.New("jwt secret is not configured")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  jwt.ClaimStrings{"access"},
		},
		UserID: userID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", eris.Wrap(err, "signing token")
	}
	return signed, nil
}

// ValidateToken parses tokenString and checks signature, expiry, issuer and
// audience. A token without a user_id claim falls back to its subject.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	if s.cfg.Secret == "" {
		return nil, eris.Wrap(domain.ErrUnauthorized, "jwt secret is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience("access"),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, eris.Wrapf(domain.ErrUnauthorized, "parsing token: %v", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	if claims.UserID == uuid.Nil {
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return nil, eris.Wrap(domain.ErrUnauthorized, "token has no user id")
		}
		claims.UserID = id
	}
	return claims, nil
}
