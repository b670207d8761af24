package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"

	"github.com/Carhuajulca/go-identity/middleware/jwtware"
)

// RouteAuthenticator adapts the identity resolver to go-router
// middleware. Protected routes get the resolved principal in both the
// router locals and the request context; failures go through the
// configurable error handlers as structured errors.
type RouteAuthenticator struct {
	auth             *Auther
	cfg              Config
	Logger           Logger
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther *Auther, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil {
		return nil, errors.New("route authenticator requires an authenticator", errors.CategoryBadInput)
	}

	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

// ProtectedRoute rejects requests that do not carry a verified token
// mapping to an active principal. The jwtware layer handles extraction
// and signature checks; principal lookup runs in the success hook so a
// valid token for a deleted or disabled user still fails.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return jwtware.New(jwtware.Config{
			ErrorHandler:   errorHandler,
			TokenValidator: a.auth.TokenService(),
			AuthScheme:     cfg.GetAuthScheme(),
			ContextKey:     cfg.GetContextKey(),
			TokenLookup:    cfg.GetTokenLookup(),
			SuccessHandler: a.loadPrincipal(cfg, errorHandler),
		})(hf)
	}
}

// OptionalRoute resolves the principal when a valid credential is
// present and lets the request through either way.
func (a *RouteAuthenticator) OptionalRoute(cfg Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			header := ctx.GetString(router.HeaderAuthorization, "")
			if user := a.auth.Resolver().ResolveOptional(ctx.Context(), header); user != nil {
				ctx.Locals(cfg.GetContextKey(), user)
				ctx.SetContext(WithPrincipal(ctx.Context(), user))
			}
			return ctx.Next()
		}
	}
}

// loadPrincipal runs after token verification. Claims were stored in
// locals by jwtware under the context key; they get replaced with the
// loaded User so downstream handlers never see raw claims.
func (a *RouteAuthenticator) loadPrincipal(cfg Config, errorHandler func(router.Context, error) error) router.HandlerFunc {
	return func(ctx router.Context) error {
		header := ctx.GetString(router.HeaderAuthorization, "")

		user, err := a.auth.Resolver().ResolveRequired(ctx.Context(), header)
		if err != nil {
			return errorHandler(ctx, err)
		}

		ctx.Locals(cfg.GetContextKey(), user)
		ctx.SetContext(WithPrincipal(ctx.Context(), user))

		return ctx.Next()
	}
}

// MakeClientRouteAuthErrorHandler normalizes token failures into
// structured auth errors. With optional set, failures log and fall
// through to the handler chain.
func (a *RouteAuthenticator) MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "An unexpected authentication error").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication rejected",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
	)

	return c.JSON(router.StatusUnauthorized, router.ViewContext{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return a.AuthErrorHandler(c, richErr)
	default:
		code := richErr.Code
		if code == 0 {
			code = router.StatusInternalServerError
		}
		return c.JSON(code, router.ViewContext{
			"error":     richErr.Message,
			"text_code": richErr.TextCode,
		})
	}
}
