package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"

	"github.com/Carhuajulca/go-identity/repository"
)

// ResolutionState is the terminal state of a single request's identity
// resolution.
type ResolutionState int

const (
	// ResolutionAnonymous means no credential was presented.
	ResolutionAnonymous ResolutionState = iota
	// ResolutionAuthenticated means a verified token mapped to an
	// active principal.
	ResolutionAuthenticated
	// ResolutionUnauthenticated means a credential was presented but
	// rejected; Err carries the cause.
	ResolutionUnauthenticated
)

// Resolution is the per-request result value. It is never persisted;
// its lifetime is bounded to the request that produced it.
type Resolution struct {
	State     ResolutionState
	Principal *User
	Err       error
}

// IdentityResolver resolves an authenticated principal from an
// Authorization header value. Each resolution is independent: the only
// shared state is the read-only token configuration and the store.
type IdentityResolver struct {
	tokens     *TokenService
	store      PrincipalStore
	authScheme string
	logger     Logger
}

type IdentityResolverOption func(*IdentityResolver)

// WithResolverLogger overrides the resolver logger.
func WithResolverLogger(logger Logger) IdentityResolverOption {
	return func(r *IdentityResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAuthScheme overrides the expected Authorization scheme.
func WithAuthScheme(scheme string) IdentityResolverOption {
	return func(r *IdentityResolver) {
		if scheme != "" {
			r.authScheme = scheme
		}
	}
}

// NewIdentityResolver wires a resolver from its two collaborators.
func NewIdentityResolver(tokens *TokenService, store PrincipalStore, opts ...IdentityResolverOption) *IdentityResolver {
	r := &IdentityResolver{
		tokens:     tokens,
		store:      store,
		authScheme: DefaultAuthScheme,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Resolve runs the full resolution machine for one request:
//
//	no header                -> Anonymous
//	verify fails             -> Unauthenticated(token error)
//	no usable subject        -> Unauthenticated(ErrMissingSubject)
//	principal missing        -> Unauthenticated(ErrIdentityNotFound)
//	principal inactive       -> Unauthenticated(ErrIdentityInactive)
//	otherwise                -> Authenticated(principal)
func (r *IdentityResolver) Resolve(ctx context.Context, authorization string) Resolution {
	token, ok := ExtractBearerToken(authorization, r.authScheme)
	if !ok {
		return Resolution{State: ResolutionAnonymous}
	}

	claims, err := r.tokens.VerifyAccessToken(token)
	if err != nil {
		return Resolution{State: ResolutionUnauthenticated, Err: err}
	}

	id, ok := AccessClaims(claims).SubjectID()
	if !ok {
		return Resolution{State: ResolutionUnauthenticated, Err: ErrMissingSubject}
	}

	user, err := r.store.GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return Resolution{State: ResolutionUnauthenticated, Err: ErrIdentityNotFound}
		}
		return Resolution{
			State: ResolutionUnauthenticated,
			Err:   errors.Wrap(err, errors.CategoryInternal, "principal lookup failed"),
		}
	}

	if !user.IsActive {
		return Resolution{State: ResolutionUnauthenticated, Err: ErrIdentityInactive}
	}

	return Resolution{State: ResolutionAuthenticated, Principal: user}
}

// ResolveRequired returns the authenticated principal or the structured
// cause. A missing header is itself a failure in this mode.
func (r *IdentityResolver) ResolveRequired(ctx context.Context, authorization string) (*User, error) {
	res := r.Resolve(ctx, authorization)

	switch res.State {
	case ResolutionAuthenticated:
		return res.Principal, nil
	case ResolutionAnonymous:
		return nil, ErrTokenMissing
	default:
		return nil, res.Err
	}
}

// ResolveRequiredActive re-checks the active flag on top of
// ResolveRequired. The machine already gates on it; this keeps the
// distinct inactive-user failure for callers that want belt and
// suspenders.
func (r *IdentityResolver) ResolveRequiredActive(ctx context.Context, authorization string) (*User, error) {
	user, err := r.ResolveRequired(ctx, authorization)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrIdentityInactive
	}

	return user, nil
}

// ResolveOptional returns the principal when resolution succeeds and
// nil otherwise. This is the only place failures are deliberately
// swallowed; the cause is logged at debug level and discarded.
func (r *IdentityResolver) ResolveOptional(ctx context.Context, authorization string) *User {
	res := r.Resolve(ctx, authorization)

	if res.State == ResolutionUnauthenticated {
		r.logger.Debug("optional resolution rejected credential", "error", res.Err)
	}

	if res.State != ResolutionAuthenticated {
		return nil
	}

	return res.Principal
}

// ExtractBearerToken pulls the raw token out of an Authorization header
// value. The scheme match is case-insensitive.
func ExtractBearerToken(authorization, scheme string) (string, bool) {
	header := strings.TrimSpace(authorization)
	if header == "" {
		return "", false
	}

	if scheme == "" {
		scheme = DefaultAuthScheme
	}

	// The scheme must be followed by a space; "Bearerabc" and
	// "Bearers abc" are not credentials.
	l := len(scheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) && header[l] == ' ' {
		token := strings.TrimSpace(header[l:])
		if token != "" {
			return token, true
		}
	}

	return "", false
}
