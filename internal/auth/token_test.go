package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftwise/internal/auth"
	"draftwise/internal/config"
	"draftwise/internal/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := auth.NewTokenService(config.JWTConfig{Secret: "s3cret", Issuer: "draftwise"})
	userID := uuid.New()

	token, err := svc.Issue(userID, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestTokenService_Expired(t *testing.T) {
	svc := auth.NewTokenService(config.JWTConfig{Secret: "s3cret"})
	token, err := svc.Issue(uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenService(config.JWTConfig{Secret: "one"}).Issue(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = auth.NewTokenService(config.JWTConfig{Secret: "two"}).ValidateToken(token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestTokenService_WrongIssuer(t *testing.T) {
	token, err := auth.NewTokenService(config.JWTConfig{Secret: "s", Issuer: "other"}).Issue(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = auth.NewTokenService(config.JWTConfig{Secret: "s", Issuer: "draftwise"}).ValidateToken(token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestTokenService_SubjectFallback(t *testing.T) {
	userID := uuid.New()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Audience:  jwt.ClaimStrings{"access"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	got, err := auth.NewTokenService(config.JWTConfig{Secret: "s"}).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:  uuid.NewString(),
		Audience: jwt.ClaimStrings{"access"},
	}).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = auth.NewTokenService(config.JWTConfig{Secret: "s"}).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_NoSecret(t *testing.T) {
	svc := auth.NewTokenService(config.JWTConfig{})
	_, err := svc.Issue(uuid.New(), time.Hour)
	assert.Error(t, err)
	_, err = svc.ValidateToken("x")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
