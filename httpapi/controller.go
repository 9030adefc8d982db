// Package httpapi exposes the access-control pipeline over JSON endpoints.
// Handlers compose a pipeline per request from the stage constructors in
// gatekit and keep no request state outside the typed exchange.
package httpapi

import (
	"context"

	gatekit "github.com/goliatone/go-gatekit"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RouteRegistrar captures the router methods the controller uses.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// API wires the pipeline dependencies for every endpoint. Everything is
// injected at construction; there are no package-level fallbacks.
type API struct {
	repo     gatekit.RepositoryManager
	verifier *gatekit.CredentialVerifier
	tokens   gatekit.TokenService
	store    gatekit.PrincipalStore

	principals *gatekit.Loader[*gatekit.Principal]
	posts      *gatekit.Loader[*gatekit.Post]
	comments   *gatekit.Loader[*gatekit.Comment]

	register *gatekit.RegisterPrincipalHandler
	password *gatekit.ChangePasswordHandler

	logger gatekit.Logger
	debug  bool
}

type Option func(*API)

func WithLogger(l gatekit.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDebug includes internal error detail in 500 responses. Never enable
// in production.
func WithDebug(debug bool) Option {
	return func(a *API) {
		a.debug = debug
	}
}

func New(repo gatekit.RepositoryManager, verifier *gatekit.CredentialVerifier, tokens gatekit.TokenService, store gatekit.PrincipalStore, opts ...Option) *API {
	a := &API{
		repo:     repo,
		verifier: verifier,
		tokens:   tokens,
		store:    store,
		register: gatekit.NewRegisterPrincipalHandler(repo),
		password: gatekit.NewChangePasswordHandler(repo),
		logger:   gatekit.DefaultLogger(),
	}

	a.principals = gatekit.NewLoader("user", func(ctx context.Context, id uuid.UUID) (*gatekit.Principal, error) {
		return repo.Principals().FindByID(ctx, id)
	})
	a.posts = gatekit.NewLoader("post", func(ctx context.Context, id uuid.UUID) (*gatekit.Post, error) {
		return repo.Posts().FindByID(ctx, id)
	})
	a.comments = gatekit.NewLoader("comment", func(ctx context.Context, id uuid.UUID) (*gatekit.Comment, error) {
		return repo.Comments().FindByID(ctx, id)
	})

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// RegisterRoutes mounts the full route table. Stage ordering is uniform
// across endpoints: authenticate, validate, load, authorize, then the
// terminal operation.
func (a *API) RegisterRoutes(app RouteRegistrar) {
	app.Post("/auth/login", a.Login)

	app.Get("/users", a.UserIndex)
	app.Post("/users", a.UserCreate)
	app.Get("/users/me", a.UserProfile)
	app.Get("/users/:id", a.UserShow)
	app.Put("/users/:id", a.UserUpdate)
	app.Put("/users/:id/password", a.UserPasswordChange)
	app.Delete("/users/:id", a.UserDelete)

	app.Get("/posts", a.PostIndex)
	app.Post("/posts", a.PostCreate)
	app.Get("/posts/:id", a.PostShow)
	app.Put("/posts/:id", a.PostUpdate)
	app.Delete("/posts/:id", a.PostDelete)

	app.Get("/comments", a.CommentIndex)
	app.Post("/comments", a.CommentCreate)
	app.Get("/comments/:id", a.CommentShow)
	app.Put("/comments/:id", a.CommentUpdate)
	app.Delete("/comments/:id", a.CommentDelete)
}

// tokenAuth builds the bearer authentication stage from the request's
// Authorization header. A missing header fails inside the pipeline so the
// short-circuit order stays observable in one place.
func (a *API) tokenAuth(ctx router.Context) gatekit.Stage {
	raw, err := BearerToken(ctx.GetString(router.HeaderAuthorization, ""))
	if err != nil {
		return func(context.Context, gatekit.Exchange) (gatekit.Exchange, error) {
			return gatekit.Exchange{}, err
		}
	}
	return gatekit.TokenAuth(a.tokens, a.store, raw)
}
