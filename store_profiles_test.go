package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitlog/auth"
)

func registerTestUser(t *testing.T, repo auth.RepositoryManager, email, username string, profile auth.Profile) *auth.User {
	t.Helper()

	handler := auth.NewRegisterUserHandler(repo, nil)
	user, err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Email:    email,
		Username: username,
		Password: "password123",
		Profile:  profile,
	})
	require.NoError(t, err)
	return user
}

func TestProfileStoreGetOwn(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	store := auth.NewProfileStore(repo, nil)
	ctx := context.Background()

	owner := registerTestUser(t, repo, "owner@example.com", "owner", auth.Profile{
		DisplayName: "Owner",
		Bio:         "climbs a lot",
		Location:    "Bishop",
	})

	t.Run("owner sees everything but the hash", func(t *testing.T) {
		user, err := store.GetOwn(ctx, owner.ID)
		require.NoError(t, err)

		assert.Equal(t, "owner@example.com", user.Email)
		assert.Equal(t, "Owner", user.Profile.DisplayName)
		assert.Equal(t, "Bishop", user.Profile.Location)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := store.GetOwn(ctx, uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "identity not found")
	})
}

func TestProfileStoreGetPublicVisibility(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	store := auth.NewProfileStore(repo, nil)
	ctx := context.Background()

	stranger := registerTestUser(t, repo, "stranger@example.com", "stranger", auth.Profile{})

	t.Run("public profile is fully visible", func(t *testing.T) {
		owner := registerTestUser(t, repo, "pub@example.com", "pub", auth.Profile{
			DisplayName: "Public Climber",
			Bio:         "all open",
			AvatarURL:   "https://example.com/a.png",
			Location:    "Yosemite",
		})

		view, err := store.GetPublic(ctx, owner.ID, stranger.ID)
		require.NoError(t, err)

		assert.Equal(t, "pub", view.Username)
		assert.Equal(t, "Public Climber", view.DisplayName)
		assert.Equal(t, "all open", view.Bio)
		assert.Equal(t, "https://example.com/a.png", view.AvatarURL)
		assert.Equal(t, "Yosemite", view.Location)
		require.NotNil(t, view.Statistics)
		assert.Zero(t, view.Statistics.TotalAscents)
	})

	t.Run("private profile is masked", func(t *testing.T) {
		owner := registerTestUser(t, repo, "priv@example.com", "priv", auth.Profile{
			DisplayName: "Secret Climber",
			Bio:         "keep out",
			PrivacySettings: auth.PrivacySettings{
				ProfileVisibility:    auth.VisibilityPrivate,
				StatisticsVisibility: auth.VisibilityPrivate,
				HistoryVisibility:    auth.VisibilityPrivate,
			},
		})

		view, err := store.GetPublic(ctx, owner.ID, stranger.ID)
		require.NoError(t, err)

		assert.Equal(t, owner.ID, view.ID)
		assert.Equal(t, "Private User", view.DisplayName)
		assert.Empty(t, view.Username)
		assert.Empty(t, view.Bio)
		assert.Empty(t, view.AvatarURL)
		assert.Empty(t, view.Location)
		assert.Nil(t, view.Statistics)
	})

	t.Run("friends tier keeps username, display name, and avatar", func(t *testing.T) {
		owner := registerTestUser(t, repo, "friendly@example.com", "friendly", auth.Profile{
			DisplayName: "Friendly Climber",
			Bio:         "friends only",
			AvatarURL:   "https://example.com/f.png",
			Location:    "Fontainebleau",
			PrivacySettings: auth.PrivacySettings{
				ProfileVisibility: auth.VisibilityFriends,
			},
		})

		view, err := store.GetPublic(ctx, owner.ID, stranger.ID)
		require.NoError(t, err)

		assert.Equal(t, "friendly", view.Username)
		assert.Equal(t, "Friendly Climber", view.DisplayName)
		assert.Equal(t, "https://example.com/f.png", view.AvatarURL)
		assert.Empty(t, view.Bio)
		assert.Empty(t, view.Location)
	})

	t.Run("statistics hidden when statistics visibility is not public", func(t *testing.T) {
		owner := registerTestUser(t, repo, "stats@example.com", "stats", auth.Profile{
			DisplayName: "Stat Keeper",
			PrivacySettings: auth.PrivacySettings{
				StatisticsVisibility: auth.VisibilityPrivate,
			},
		})

		view, err := store.GetPublic(ctx, owner.ID, stranger.ID)
		require.NoError(t, err)

		assert.Equal(t, "Stat Keeper", view.DisplayName)
		assert.Nil(t, view.Statistics)
	})

	t.Run("owner reading own profile bypasses privacy", func(t *testing.T) {
		owner := registerTestUser(t, repo, "self@example.com", "self", auth.Profile{
			DisplayName: "Self Viewer",
			Bio:         "mirror mirror",
			PrivacySettings: auth.PrivacySettings{
				ProfileVisibility: auth.VisibilityPrivate,
			},
		})

		view, err := store.GetPublic(ctx, owner.ID, owner.ID)
		require.NoError(t, err)

		assert.Equal(t, "Self Viewer", view.DisplayName)
		assert.Equal(t, "mirror mirror", view.Bio)
		assert.Equal(t, "self", view.Username)
	})

	t.Run("anonymous requester gets the public projection", func(t *testing.T) {
		owner := registerTestUser(t, repo, "anon-target@example.com", "anontarget", auth.Profile{
			DisplayName: "Anon Target",
			PrivacySettings: auth.PrivacySettings{
				ProfileVisibility: auth.VisibilityPrivate,
			},
		})

		view, err := store.GetPublic(ctx, owner.ID, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, "Private User", view.DisplayName)
	})
}

func TestProfileStoreUpdate(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	store := auth.NewProfileStore(repo, nil)
	ctx := context.Background()

	owner := registerTestUser(t, repo, "editor@example.com", "editor", auth.Profile{
		DisplayName: "Editor",
	})
	other := registerTestUser(t, repo, "other@example.com", "other", auth.Profile{})

	t.Run("owner updates their profile", func(t *testing.T) {
		profile := owner.Profile
		profile.DisplayName = "Edited"
		profile.Bio = "new bio"

		updated, err := store.Update(ctx, owner.ID, owner.ID, auth.ProfileUpdate{
			Profile: &profile,
		})
		require.NoError(t, err)

		assert.Equal(t, "Edited", updated.Profile.DisplayName)
		assert.Equal(t, "new bio", updated.Profile.Bio)
		assert.Empty(t, updated.PasswordHash)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		profile := owner.Profile
		profile.DisplayName = "Hijacked"

		_, err := store.Update(ctx, owner.ID, other.ID, auth.ProfileUpdate{
			Profile: &profile,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Forbidden")
	})

	t.Run("patch validation failures are rejected", func(t *testing.T) {
		profile := owner.Profile
		profile.PrivacySettings.ProfileVisibility = "everyone"

		_, err := store.Update(ctx, owner.ID, owner.ID, auth.ProfileUpdate{
			Profile: &profile,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid profile visibility setting")
	})

	t.Run("identity change goes through the uniqueness guard", func(t *testing.T) {
		takenEmail := "other@example.com"
		_, err := store.Update(ctx, owner.ID, owner.ID, auth.ProfileUpdate{
			Email: &takenEmail,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email already registered")

		freshEmail := "fresh@example.com"
		updated, err := store.Update(ctx, owner.ID, owner.ID, auth.ProfileUpdate{
			Email: &freshEmail,
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh@example.com", updated.Email)
	})

	t.Run("identity change is validated", func(t *testing.T) {
		bad := "not-an-email"
		_, err := store.Update(ctx, owner.ID, owner.ID, auth.ProfileUpdate{
			Email: &bad,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})
}

func TestProfileStoreDelete(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	store := auth.NewProfileStore(repo, nil)
	ctx := context.Background()

	owner := registerTestUser(t, repo, "gone@example.com", "gone", auth.Profile{})
	other := registerTestUser(t, repo, "stays@example.com", "stays", auth.Profile{})

	t.Run("non owner is forbidden", func(t *testing.T) {
		err := store.Delete(ctx, owner.ID, other.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Forbidden")
	})

	t.Run("owner deletes and frees the identity", func(t *testing.T) {
		err := store.Delete(ctx, owner.ID, owner.ID)
		require.NoError(t, err)

		_, err = store.GetOwn(ctx, owner.ID)
		require.Error(t, err)

		// username and email can be registered again
		fresh := registerTestUser(t, repo, "gone@example.com", "gone", auth.Profile{})
		assert.NotEqual(t, owner.ID, fresh.ID)
	})

	t.Run("deleting a missing record reports not found", func(t *testing.T) {
		err := store.Delete(ctx, owner.ID, owner.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "identity not found")
	})
}
