package auth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"

	"github.com/Carhuajulca/go-identity/repository"
)

// Auther composes the credential policy, token service, and user store
// into the login/registration chain.
type Auther struct {
	store       Users
	credentials *CredentialPolicy
	tokens      *TokenService
	resolver    *IdentityResolver
	authScheme  string
	logger      Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store Users, cfg Config) *Auther {
	tokens := NewTokenService(cfg)

	return &Auther{
		store:       store,
		credentials: NewCredentialPolicy(cfg),
		tokens:      tokens,
		authScheme:  cfg.GetAuthScheme(),
		resolver: NewIdentityResolver(tokens, store,
			WithAuthScheme(cfg.GetAuthScheme()),
		),
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, e.g. to inject a test
// clock. The resolver is rebuilt so both see the same instance; the
// configured auth scheme carries over.
func (s *Auther) WithTokenService(tokens *TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
		s.resolver = NewIdentityResolver(tokens, s.store,
			WithAuthScheme(s.authScheme),
		)
	}
	return s
}

// WithCredentialPolicy overrides the credential policy.
func (s *Auther) WithCredentialPolicy(policy *CredentialPolicy) *Auther {
	if policy != nil {
		s.credentials = policy
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Resolver returns the per-request identity resolver.
func (s *Auther) Resolver() *IdentityResolver {
	return s.resolver
}

// CredentialPolicy returns the configured credential policy.
func (s *Auther) CredentialPolicy() *CredentialPolicy {
	return s.credentials
}

// Login verifies the identifier/password pair and issues an access
// token whose subject is the user id. Lookup misses and hash
// mismatches collapse into the same invalid-credentials error so
// callers cannot probe for registered emails.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrMismatchedHashAndPassword
		}
		s.logger.Error("Login identity lookup error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if !s.credentials.VerifyPassword(ctx, password, user.PasswordHash) {
		return "", ErrMismatchedHashAndPassword
	}

	if !user.IsActive {
		return "", ErrIdentityInactive
	}

	// Best effort; a failed timestamp update must not block the login.
	if err := s.store.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Warn("failed to track successful login", "error", err)
	}

	return s.tokens.Generate(user)
}

// Register validates and hashes the password, then persists the user.
// The cleartext never outlives this call.
func (s *Auther) Register(ctx context.Context, user *User, password string) (*User, error) {
	hash, err := s.credentials.HashPasswordWithValidation(ctx, password)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash

	created, err := s.store.Register(ctx, user)
	if err != nil {
		if repository.IsConstraintViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "email already registered").
				WithCode(errors.CodeConflict)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return created, nil
}

// ChangePassword validates and re-hashes, then swaps the stored hash.
func (s *Auther) ChangePassword(ctx context.Context, id int64, newPassword string) (*User, error) {
	hash, err := s.credentials.HashPasswordWithValidation(ctx, newPassword)
	if err != nil {
		return nil, err
	}

	return s.store.SetPassword(ctx, id, hash)
}

// Logout is a documented no-op: tokens are short-lived and there is no
// revocation store, so nothing is invalidated server-side. The caller
// gets a confirmation message and drops the token client-side.
func (s *Auther) Logout(ctx context.Context, user *User) string {
	if user == nil {
		return "logout successful"
	}
	return fmt.Sprintf("logout successful for %s", user.Email)
}
