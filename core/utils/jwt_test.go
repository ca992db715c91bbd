package utils

import (
	"testing"
	"time"

	"wellness-planner/core/config"
	"wellness-planner/core/constants"
	"wellness-planner/core/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTestConfig(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			AccessTTLMinutes:  15,
			RefreshTTLMinutes: 60 * 24,
		},
	})
	t.Cleanup(func() { config.Set(nil) })
}

func TestValidateAndParseToken(t *testing.T) {
	seedTestConfig(t)
	userID := uuid.New()

	t.Run("Valid Token Round Trip", func(t *testing.T) {
		token, err := GenerateToken(userID, nil, nil, constants.ScopeTokenAccess)
		require.NoError(t, err)

		claims, err := ValidateAndParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)
	})

	t.Run("Expired Token Reports Expiry", func(t *testing.T) {
		token, err := GenerateToken(userID, nil, nil, constants.ScopeTokenAccess, -time.Minute)
		require.NoError(t, err)

		_, err = ValidateAndParseToken(token)
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrTokenExpired, appErr.Code)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := ValidateAndParseToken("not-a-token")
		require.Error(t, err)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrInvalidTokenFormat, appErr.Code)
	})
}
