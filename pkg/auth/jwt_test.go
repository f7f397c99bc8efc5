package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

func testUser() *entity.User {
	return &entity.User{
		ID:       42,
		Username: "testuser",
		Email:    "test@example.com",
		Role:     entity.RoleUser,
	}
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24)
	assert.Error(t, err)
}

func TestJWTService_GenerateAndParse(t *testing.T) {
	service, err := NewJWTService("test-secret", 24)
	require.NoError(t, err)

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestJWTService_ParseToken_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-one", 24)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two", 24)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestJWTService_ParseToken_Expired(t *testing.T) {
	service, err := NewJWTService("test-secret", 24)
	require.NoError(t, err)

	// Выписываем токен с истекшим сроком вручную, тем же секретом
	claims := JWTCustomClaims{
		UserID:   42,
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ParseToken(expired)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExpiredToken))
}

func TestJWTService_ParseToken_Garbage(t *testing.T) {
	service, err := NewJWTService("test-secret", 24)
	require.NoError(t, err)

	_, err = service.ParseToken("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestJWTService_ParseToken_NoUserID(t *testing.T) {
	service, err := NewJWTService("test-secret", 24)
	require.NoError(t, err)

	// Валидная подпись, но identity отсутствует
	claims := JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ParseToken(anonymous)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
