package auth

import (
	"context"
	"runtime"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// CredentialPolicy validates password strength and derives bcrypt
// hashes. Hashing is CPU-bound and intentionally expensive, so every
// hash or verify acquires a slot on a weighted semaphore; one slow
// operation cannot starve unrelated request processing, and a cancelled
// caller abandons the work before it starts.
type CredentialPolicy struct {
	cost   int
	sem    *semaphore.Weighted
	logger Logger
}

type CredentialPolicyOption func(*CredentialPolicy)

// WithCredentialLogger overrides the policy logger.
func WithCredentialLogger(logger Logger) CredentialPolicyOption {
	return func(p *CredentialPolicy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxConcurrentHashes bounds the hashing pool. Defaults to
// GOMAXPROCS.
func WithMaxConcurrentHashes(n int) CredentialPolicyOption {
	return func(p *CredentialPolicy) {
		if n > 0 {
			p.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewCredentialPolicy builds a policy from the configured work factor.
func NewCredentialPolicy(cfg Config, opts ...CredentialPolicyOption) *CredentialPolicy {
	p := &CredentialPolicy{
		cost:   cfg.GetHashCost(),
		sem:    semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		logger: defLogger{},
	}

	if p.cost < bcrypt.MinCost || p.cost > bcrypt.MaxCost {
		p.cost = DefaultHashCost
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// bcrypt keys on the first 72 bytes of input only. Longer passwords
// are truncated rather than rejected so every password the strength
// policy accepts can be hashed and verified.
const maxBcryptInputBytes = 72

func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptInputBytes {
		b = b[:maxBcryptInputBytes]
	}
	return b
}

// HashPassword will generate a password hash. Blank or whitespace-only
// input fails with ErrNoEmptyPassword before any cost is paid.
func (p *CredentialPolicy) HashPassword(ctx context.Context, password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrNoEmptyPassword
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "hashing cancelled before start")
	}
	defer p.sem.Release(1)

	h, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), p.cost)
	if err != nil {
		return "", errors.Wrap(err, ErrHashFailure.Category, ErrHashFailure.Message).
			WithTextCode(ErrHashFailure.TextCode)
	}

	return string(h), nil
}

// VerifyPassword reports whether the cleartext password matches the
// stored hash. Missing input on either side is false, never an error,
// and comparison is delegated to bcrypt's constant-effort check rather
// than any length short-circuit.
func (p *CredentialPolicy) VerifyPassword(ctx context.Context, password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer p.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(password)) == nil
}

// HashPasswordWithValidation runs the strength policy first and only
// pays the bcrypt cost when the password passes. Invalid input comes
// back as a WeakPassword error carrying the failing rule.
func (p *CredentialPolicy) HashPasswordWithValidation(ctx context.Context, password string) (string, error) {
	valid, reason := ValidatePasswordStrength(password)
	if !valid {
		return "", NewWeakPasswordError(reason)
	}

	return p.HashPassword(ctx, password)
}

// RandomPasswordHash is a temporary password
func (p *CredentialPolicy) RandomPasswordHash(ctx context.Context) (string, error) {
	return p.HashPassword(ctx, uuid.NewString())
}
