package auth

import (
	stderrors "errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Middleware is the surface the controller needs from a
// RouteAuthenticator.
type Middleware interface {
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
	OptionalRoute(cfg Config) router.MiddlewareFunc
}

// RegisterAuthRoutes mounts the JSON auth endpoints on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("auth.register")

	app.Post(controller.Routes.Logout, controller.LogoutPost).
		SetName("auth.logout")

	app.Get(controller.Routes.Me, controller.MeShow).
		SetName("auth.me")

	app.Get(controller.Routes.Verify, controller.VerifyShow).
		SetName("auth.verify")

	app.Post(controller.Routes.PasswordChange, controller.PasswordChangePost).
		SetName("auth.password")
}

type AuthControllerRoutes struct {
	Login          string
	Logout         string
	Register       string
	Me             string
	Verify         string
	PasswordChange string
}

// AuthController serves the JSON authentication endpoints. Protected
// handlers resolve the principal from the Authorization header on every
// call rather than relying on middleware ordering.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       *Auther
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerErrorHandler(handler router.ErrorHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Login:          "/auth/login",
			Logout:         "/auth/logout",
			Register:       "/auth/register",
			Me:             "/auth/me",
			Verify:         "/auth/verify",
			PasswordChange: "/auth/password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
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
		a.Logger.Error("login parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error":      "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		if stderrors.Is(err, ErrMismatchedHashAndPassword) || stderrors.Is(err, ErrIdentityInactive) {
			return ctx.JSON(router.StatusUnauthorized, router.ViewContext{
				"error": "Incorrect email or password",
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(a.Auther.TokenService().DefaultTTL().Seconds()),
	})
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload. Length bounds mirror the
// credential policy; strength rules run again inside registration.
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error":      "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	user := &User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
	}

	created, err := a.Auther.Register(ctx.Context(), user, payload.Password)
	if err != nil {
		a.Logger.Error("register user", "error", err)

		var richErr *errors.Error
		if errors.As(err, &richErr) {
			switch richErr.Category {
			case errors.CategoryConflict:
				return ctx.JSON(fiber.StatusConflict, router.ViewContext{
					"error": richErr.Message,
				})
			case errors.CategoryValidation, errors.CategoryBadInput:
				return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
					"error": richErr.Message,
				})
			}
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, userResponse(created))
}

// LogoutPost confirms the logout without invalidating anything
// server-side. Tokens are short-lived and stateless; the client drops
// its copy.
func (a *AuthController) LogoutPost(ctx router.Context) error {
	header := ctx.GetString(router.HeaderAuthorization, "")
	user := a.Auther.Resolver().ResolveOptional(ctx.Context(), header)

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"message": a.Auther.Logout(ctx.Context(), user),
	})
}

func (a *AuthController) MeShow(ctx router.Context) error {
	user, err := a.requirePrincipal(ctx)
	if err != nil {
		return a.unauthorized(ctx, err)
	}

	return ctx.JSON(router.StatusOK, userResponse(user))
}

func (a *AuthController) VerifyShow(ctx router.Context) error {
	user, err := a.requirePrincipal(ctx)
	if err != nil {
		return a.unauthorized(ctx, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"valid":   true,
		"user_id": user.ID,
	})
}

// PasswordChangePayload holds values for a password change
type PasswordChangePayload struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r PasswordChangePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.NewPassword)),
		),
	)
}

func (a *AuthController) PasswordChangePost(ctx router.Context) error {
	user, err := a.requirePrincipal(ctx)
	if err != nil {
		return a.unauthorized(ctx, err)
	}

	payload := new(PasswordChangePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password change parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error":      "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if !a.Auther.CredentialPolicy().VerifyPassword(ctx.Context(), payload.CurrentPassword, user.PasswordHash) {
		return ctx.JSON(router.StatusUnauthorized, router.ViewContext{
			"error": "Current password is incorrect",
		})
	}

	if _, err := a.Auther.ChangePassword(ctx.Context(), user.ID, payload.NewPassword); err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryValidation {
			return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
				"error": richErr.Message,
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"message": "password updated",
	})
}

func (a *AuthController) requirePrincipal(ctx router.Context) (*User, error) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	return a.Auther.Resolver().ResolveRequiredActive(ctx.Context(), header)
}

func (a *AuthController) unauthorized(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "Could not validate credentials").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info("unauthorized request", "text_code", richErr.TextCode)

	return ctx.JSON(router.StatusUnauthorized, router.ViewContext{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}

func userResponse(user *User) router.ViewContext {
	return router.ViewContext{
		"id":         user.ID,
		"public_id":  user.PublicID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"is_active":  user.IsActive,
	}
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New("values must match")
		}
		return nil
	}
}

func defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = router.StatusInternalServerError
	}

	return c.JSON(code, router.ViewContext{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}
