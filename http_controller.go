package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// Middleware is what route modules need from the HTTP authenticator
type Middleware interface {
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
	OptionalRoute(cfg Config) router.MiddlewareFunc
	MakeRouteAuthErrorHandler(optional bool) func(router.Context, error) error
}

// RegisterAuthRoutes mounts the registration, login, and profile endpoints
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	protected := controller.Auther.ProtectedRoute(
		controller.Config,
		controller.Auther.MakeRouteAuthErrorHandler(false),
	)
	optional := controller.Auther.OptionalRoute(controller.Config)

	app.
		Post(controller.Routes.Users, controller.RegistrationCreate).
		SetName("users.create")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.
		Get(controller.Routes.Me, protected(controller.MeShow)).
		SetName("users.me.get")

	app.
		Put(controller.Routes.Me, protected(controller.MeUpdate)).
		SetName("users.me.put")

	app.
		Delete(controller.Routes.Me, protected(controller.MeDelete)).
		SetName("users.me.delete")

	app.
		Get(fmt.Sprintf("%s/:id", controller.Routes.Users), optional(controller.UserShow)).
		SetName("users.show")
}

type AuthControllerRoutes struct {
	Login string
	Users string
	Me    string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       *RouteAuthenticator
	Config       Config
	Profiles     ProfileStore
	Register     *RegisterUserHandler
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login: "/login",
			Users: "/users",
			Me:    "/users/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	if c.Profiles == nil {
		c.Profiles = NewProfileStore(c.Repo, c.Logger)
	}

	if c.Register == nil {
		c.Register = NewRegisterUserHandler(c.Repo, c.Logger)
	}

	if c.ErrorHandler == nil {
		logger := c.Logger
		c.ErrorHandler = func(ctx router.Context, err error) error {
			return WriteJSONError(ctx, err, logger)
		}
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.ErrorHandler(ctx, ErrMismatchedHashAndPassword)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, ErrMismatchedHashAndPassword)
	}

	token, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"token": token,
	})
}

// RegistrationCreatePayload is the registration body. Field checks run in
// the registration pipeline so rejections carry the contract messages.
type RegistrationCreatePayload struct {
	Email    string  `form:"email" json:"email"`
	Username string  `form:"username" json:"username"`
	Password string  `form:"password" json:"password"`
	Profile  Profile `form:"profile" json:"profile"`
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %v", err)
		return a.ErrorHandler(ctx, ErrInvalidEmailFormat)
	}

	if a.Debug {
		a.Logger.Debug("registration payload: %s", print.MaybePrettyJSON(map[string]any{
			"email":    payload.Email,
			"username": payload.Username,
		}))
	}

	req := RegisterUserMessage{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
		Profile:  payload.Profile,
	}

	user, err := a.Register.Execute(ctx.Context(), req)
	if err != nil {
		a.Logger.Error("register user error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "User registered successfully",
		"user": map[string]any{
			"id":         user.ID,
			"email":      user.Email,
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
	})
}

func (a *AuthController) MeShow(ctx router.Context) error {
	requesterID, err := a.requesterID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user, err := a.Profiles.GetOwn(ctx.Context(), requesterID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) MeUpdate(ctx router.Context) error {
	requesterID, err := a.requesterID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	patch := new(ProfileUpdate)
	if err := ctx.Bind(patch); err != nil {
		a.Logger.Error("profile update parse payload: %v", err)
		return a.ErrorHandler(ctx, ErrInvalidDisplayName)
	}

	user, err := a.Profiles.Update(ctx.Context(), requesterID, requesterID, *patch)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) MeDelete(ctx router.Context) error {
	requesterID, err := a.requesterID(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Profiles.Delete(ctx.Context(), requesterID, requesterID); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "User deleted",
	})
}

func (a *AuthController) UserShow(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id", ""))
	if err != nil {
		return a.ErrorHandler(ctx, ErrIdentityNotFound)
	}

	// anonymous callers read with the nil requester and get the public
	// projection
	requesterID := uuid.Nil
	if claims, ok := GetRouterClaims(ctx, a.Config.GetContextKey()); ok {
		if parsed, err := uuid.Parse(claims.UserID()); err == nil {
			requesterID = parsed
		}
	}

	user, err := a.Profiles.GetPublic(ctx.Context(), id, requesterID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) requesterID(ctx router.Context) (uuid.UUID, error) {
	claims, ok := GetRouterClaims(ctx, a.Config.GetContextKey())
	if !ok {
		return uuid.Nil, ErrTokenMissing
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uuid.Nil, ErrUnableToMapClaims
	}

	return id, nil
}
