package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes carried by the structured errors below. Boundary handlers
// collapse most auth failures into a single 401, but callers that need
// precise diagnostics (logging, abuse detection) can discriminate on
// these.
const (
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMissing     = "TOKEN_MISSING"
	TextCodeMissingSubject   = "TOKEN_MISSING_SUBJECT"
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	TextCodeIdentityInactive = "IDENTITY_INACTIVE"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeWeakPassword     = "WEAK_PASSWORD"
	TextCodeHashFailure      = "HASH_FAILURE"
	TextCodeBadCredentials   = "INVALID_CREDENTIALS"
)

// ErrTokenMalformed covers undecodable structure, signature mismatch,
// and unknown signing algorithms.
var ErrTokenMalformed = errors.New("invalid or malformed token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's exp claim is in the past.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMissing is returned by mandatory resolution when no
// Authorization header is present.
var ErrTokenMissing = errors.New("missing authorization token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(errors.CodeUnauthorized)

// ErrMissingSubject is returned when a verified token carries no usable
// subject claim.
var ErrMissingSubject = errors.New("token has no subject", errors.CategoryAuth).
	WithTextCode(TextCodeMissingSubject).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityInactive is returned when the principal exists but has
// been deactivated.
var ErrIdentityInactive = errors.New("inactive identity", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityInactive).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the single error surfaced for bad
// login credentials, regardless of whether the identity exists.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyPassword guards the hashing primitive against blank input.
var ErrNoEmptyPassword = errors.New("password cannot be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrHashFailure wraps failures of the underlying hashing primitive.
// Not recoverable locally; abort the operation rather than storing an
// empty hash.
var ErrHashFailure = errors.New("failed to hash password", errors.CategoryInternal).
	WithTextCode(TextCodeHashFailure).
	WithCode(errors.CodeInternal)

// NewWeakPasswordError builds a validation error carrying the first
// failing policy rule. The reason is a usability signal for the caller,
// not a security leak: it concerns their own not-yet-stored input.
func NewWeakPasswordError(reason string) *errors.Error {
	return errors.New(reason, errors.CategoryValidation).
		WithTextCode(TextCodeWeakPassword).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{
			"reason": reason,
		})
}

// HasTextCode reports whether err is a structured error tagged with the
// given text code.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return HasTextCode(err, TextCodeTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return HasTextCode(err, TextCodeTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
