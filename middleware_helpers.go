package auth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
)

// ClaimsContextEnricher stores verified claims in the standard context
// so downstream handlers can read them without touching router locals.
// Matches the jwtware ContextEnricher signature.
func ClaimsContextEnricher(c context.Context, claims jwt.MapClaims) context.Context {
	return WithClaims(c, AccessClaims(claims))
}

// PrincipalFromRouterContext reads the User a protected route stored in
// locals under the given context key.
func PrincipalFromRouterContext(ctx router.Context, contextKey string) (*User, bool) {
	user, ok := ctx.Locals(contextKey).(*User)
	return user, ok
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map for JSON error payloads.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	verrs, ok := err.(validation.Errors)
	if !ok {
		out["error"] = err.Error()
		return out
	}

	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}

	return out
}
