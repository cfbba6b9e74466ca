package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitlog/auth"
)

func TestUserProviderVerifyIdentity(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	registerTestUser(t, repo, "climber@example.com", "climber", auth.Profile{})

	provider := auth.NewUserProvider(repo.Users())
	ctx := context.Background()

	t.Run("verifies by email", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "climber@example.com", "password123")
		require.NoError(t, err)
		require.NotNil(t, identity)

		assert.Equal(t, "climber", identity.Username())
		assert.Equal(t, "climber@example.com", identity.Email())
		assert.NotEmpty(t, identity.ID())
	})

	t.Run("verifies by username", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "climber", "password123")
		require.NoError(t, err)
		assert.Equal(t, "climber@example.com", identity.Email())
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		_, err := provider.VerifyIdentity(ctx, "climber@example.com", "wrong-password")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("unknown identifier yields the same error", func(t *testing.T) {
		_, err := provider.VerifyIdentity(ctx, "ghost@example.com", "password123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}

func TestUserProviderFindIdentityByIdentifier(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	user := registerTestUser(t, repo, "climber@example.com", "climber", auth.Profile{})

	provider := auth.NewUserProvider(repo.Users())
	ctx := context.Background()

	identity, err := provider.FindIdentityByIdentifier(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())

	_, err = provider.FindIdentityByIdentifier(ctx, "ghost")
	require.Error(t, err)
}
