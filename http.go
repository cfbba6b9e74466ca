package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/summitlog/auth/middleware/jwtware"
)

// tokenValidatorAdapter bridges the auth package's validators to the
// middleware's narrower interface.
type tokenValidatorAdapter struct {
	validator TokenValidator
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RouteAuthenticator wires the authenticator into HTTP middleware
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	validator    TokenValidator
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:       cfg,
		auth:      auther,
		validator: auther.TokenService(),
		Logger:    defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// WithTokenValidator swaps the validator the route middleware uses. Wrap the
// current and previous token services in a MultiTokenValidator to keep old
// sessions alive through a signing key rotation.
func (a *RouteAuthenticator) WithTokenValidator(v TokenValidator) *RouteAuthenticator {
	if v != nil {
		a.validator = v
	}
	return a
}

// ProtectedRoute rejects requests without a valid bearer token. Validated
// claims are stored under the configured context key and propagated to the
// standard context.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		ErrorHandler: errorHandler,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:      cfg.GetAuthScheme(),
		ContextKey:      cfg.GetContextKey(),
		TokenLookup:     cfg.GetTokenLookup(),
		TokenValidator:  tokenValidatorAdapter{validator: a.validator},
		ContextEnricher: ContextEnricherAdapter,
	})
}

// OptionalRoute validates a bearer token when one is present but lets
// anonymous requests through to the wrapped handler. Handlers see claims
// only for authenticated callers.
func (a *RouteAuthenticator) OptionalRoute(cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		if next == nil {
			next = func(ctx router.Context) error {
				return ctx.Next()
			}
		}
		authenticate := a.ProtectedRoute(cfg, func(ctx router.Context, err error) error {
			a.Logger.Info("Optional auth failed, proceeding anonymously: %s", err)
			return next(ctx)
		})
		return authenticate(next)
	}
}

// MakeRouteAuthErrorHandler normalizes middleware failures into the rich
// token errors before handing them to the JSON error handler.
func (a *RouteAuthenticator) MakeRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsTokenMissingError(err) {
			richErr = ErrTokenMissing
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

// Login authenticates the payload and returns the signed session token.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (string, error) {
	token, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return "", err
	}

	return token, nil
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	return WriteJSONError(c, err, a.Logger)
}

// WriteJSONError renders any error as the API's error envelope. Rich
// errors keep their category, code, and text code; anything else becomes an
// opaque 500.
func WriteJSONError(c router.Context, err error, logger Logger) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	if logger != nil {
		logger.Info(
			"request error category=%s text_code=%s details=%s",
			richErr.Category,
			richErr.TextCode,
			print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	status := richErr.Code
	if status == 0 {
		status = router.StatusInternalServerError
	}

	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
			"category":  richErr.Category,
		},
	})
}

// LoginPayload provides login credentials
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}
