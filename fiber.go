package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// NewFiberServer builds a fiber-backed server with the auth routes mounted.
// Callers that need more control should build the adapter themselves and
// call RegisterAuthRoutes directly.
func NewFiberServer(cfg Config, repo RepositoryManager, logger Logger) (router.Server[*fiber.App], error) {
	if logger == nil {
		logger = defLogger{}
	}

	provider := NewUserProvider(repo.Users()).WithLogger(logger)
	auther := NewAuthenticator(provider, cfg).WithLogger(logger)

	httpAuth, err := NewHTTPAuthenticator(auther, cfg)
	if err != nil {
		return nil, err
	}
	httpAuth.Logger = logger

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	RegisterAuthRoutes(srv.Router(),
		WithControllerRepo(repo),
		WithControllerAuther(httpAuth),
		WithControllerConfig(cfg),
		WithControllerLogger(logger),
	)

	return srv, nil
}
