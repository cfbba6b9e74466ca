package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/summitlog/auth"
)

func TestReserveIdentity(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.Users().Register(ctx, &auth.User{
		Email:        "taken@example.com",
		Username:     "taken",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	t.Run("free identity passes", func(t *testing.T) {
		err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return auth.ReserveIdentity(ctx, repo.Users(), tx, "free@example.com", "free")
		})
		assert.NoError(t, err)
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return auth.ReserveIdentity(ctx, repo.Users(), tx, "taken@example.com", "free")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email already registered")
		assert.True(t, auth.IsUniqueViolation(err))
	})

	t.Run("taken username is rejected", func(t *testing.T) {
		err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return auth.ReserveIdentity(ctx, repo.Users(), tx, "free@example.com", "taken")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Username already taken")
	})

	t.Run("email conflict wins when both collide", func(t *testing.T) {
		err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return auth.ReserveIdentity(ctx, repo.Users(), tx, "taken@example.com", "taken")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email already registered")
	})
}

func TestConcurrentRegistrationSingleWinner(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	handler := auth.NewRegisterUserHandler(repo, nil)

	const workers = 8

	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = handler.Execute(context.Background(), auth.RegisterUserMessage{
				Email:    fmt.Sprintf("racer-%d@example.com", i),
				Username: "racer",
				Password: "password123",
			})
		}(i)
	}

	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.Contains(t, err.Error(), "Username already taken")
	}

	assert.Equal(t, 1, winners)

	// exactly one row made it in
	found, err := repo.Users().GetByIdentifier(context.Background(), "racer")
	require.NoError(t, err)
	assert.Equal(t, "racer", found.Username)
}
