package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitlog/auth"
)

func TestSimpleConfigDefaults(t *testing.T) {
	cfg := &auth.SimpleConfig{SigningKey: "secret"}

	assert.Equal(t, "secret", cfg.GetSigningKey())
	assert.Equal(t, "HS256", cfg.GetSigningMethod())
	assert.Equal(t, "user", cfg.GetContextKey())
	assert.Equal(t, 24, cfg.GetTokenExpiration())
	assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
	assert.Empty(t, cfg.GetIssuer())
	assert.Empty(t, cfg.GetAudience())
}

func TestSimpleConfigOverrides(t *testing.T) {
	cfg := &auth.SimpleConfig{
		SigningKey:      "secret",
		SigningMethod:   "HS512",
		ContextKey:      "session",
		TokenExpiration: 48,
		TokenLookup:     "cookie:jwt",
		AuthScheme:      "Token",
		Issuer:          "summitlog",
		Audience:        []string{"api"},
	}

	assert.Equal(t, "HS512", cfg.GetSigningMethod())
	assert.Equal(t, "session", cfg.GetContextKey())
	assert.Equal(t, 48, cfg.GetTokenExpiration())
	assert.Equal(t, "cookie:jwt", cfg.GetTokenLookup())
	assert.Equal(t, "Token", cfg.GetAuthScheme())
	assert.Equal(t, "summitlog", cfg.GetIssuer())
	assert.Equal(t, []string{"api"}, cfg.GetAudience())
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("requires signing key", func(t *testing.T) {
		t.Setenv("AUTH_SIGNING_KEY", "")

		_, err := auth.ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_SIGNING_KEY is required")
	})

	t.Run("reads full configuration", func(t *testing.T) {
		t.Setenv("AUTH_SIGNING_KEY", "env-secret")
		t.Setenv("AUTH_TOKEN_EXPIRATION_HOURS", "12")
		t.Setenv("AUTH_ISSUER", "summitlog")
		t.Setenv("AUTH_AUDIENCE", "api, mobile")

		cfg, err := auth.ConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "env-secret", cfg.GetSigningKey())
		assert.Equal(t, 12, cfg.GetTokenExpiration())
		assert.Equal(t, "summitlog", cfg.GetIssuer())
		assert.Equal(t, []string{"api", "mobile"}, cfg.GetAudience())
	})

	t.Run("rejects bad expiration value", func(t *testing.T) {
		t.Setenv("AUTH_SIGNING_KEY", "env-secret")
		t.Setenv("AUTH_TOKEN_EXPIRATION_HOURS", "soon")

		_, err := auth.ConfigFromEnv()
		require.Error(t, err)
	})
}
