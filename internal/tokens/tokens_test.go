package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcart/internal/models"
)

var secret = []byte("test-secret")

func TestSignAndParse(t *testing.T) {
	user := &models.User{ID: 42, Email: "alice@example.com", Role: models.RoleManager}

	raw, err := Sign(user, secret)
	require.NoError(t, err)

	claims, err := Parse(raw, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	assert.WithinDuration(t, time.Now().Add(TTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParse_WrongSecret(t *testing.T) {
	raw, err := Sign(&models.User{ID: 1, Email: "a@b.com", Role: models.RoleCustomer}, secret)
	require.NoError(t, err)

	_, err = Parse(raw, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	past := time.Now().Add(-2 * TTL)
	claims := Claims{
		Email: "a@b.com",
		Role:  models.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(TTL)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = Parse(raw, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_UnknownRoleRejected(t *testing.T) {
	claims := Claims{
		Email: "a@b.com",
		Role:  models.Role("superuser"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TTL)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = Parse(raw, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email: "a@b.com",
		Role:  models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TTL)),
		},
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(raw, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
