package auth

import (
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
)

// SimpleConfig is a plain struct implementation of Config. Load it once at
// startup and treat it as immutable for the process lifetime; rotating the
// signing key invalidates every previously issued token.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetAudience() []string { return c.Audience }

// ConfigFromEnv builds a SimpleConfig from the process environment.
// AUTH_SIGNING_KEY is required; everything else has a default.
func ConfigFromEnv() (*SimpleConfig, error) {
	key := os.Getenv("AUTH_SIGNING_KEY")
	if key == "" {
		return nil, errors.New("AUTH_SIGNING_KEY is required", errors.CategoryOperation)
	}

	cfg := &SimpleConfig{
		SigningKey:    key,
		SigningMethod: os.Getenv("AUTH_SIGNING_METHOD"),
		ContextKey:    os.Getenv("AUTH_CONTEXT_KEY"),
		Issuer:        os.Getenv("AUTH_ISSUER"),
	}

	if v := os.Getenv("AUTH_TOKEN_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "invalid AUTH_TOKEN_EXPIRATION_HOURS")
		}
		cfg.TokenExpiration = hours
	}

	if v := os.Getenv("AUTH_AUDIENCE"); v != "" {
		for _, aud := range strings.Split(v, ",") {
			if aud = strings.TrimSpace(aud); aud != "" {
				cfg.Audience = append(cfg.Audience, aud)
			}
		}
	}

	return cfg, nil
}
