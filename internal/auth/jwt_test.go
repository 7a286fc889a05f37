package auth

import (
	"testing"
	"time"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-key"), time.Hour)

	token, err := issuer.GenerateJWT(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.User().IsAdmin())
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-key"), time.Hour)
	user := &models.User{ID: 2, Username: "user", Role: "user"}

	t.Run("WrongKey", func(t *testing.T) {
		other := NewTokenIssuer([]byte("other-key"), time.Hour)
		token, err := other.GenerateJWT(user)
		require.NoError(t, err)

		_, err = issuer.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		past := NewTokenIssuer([]byte("test-key"), time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.GenerateJWT(user)
		require.NoError(t, err)

		_, err = issuer.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin", Role: models.RoleAdmin})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.ParseToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
