package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService issues and verifies self-contained HS256 bearer tokens.
// The signing key, method, and default TTL are fixed at construction;
// both operations are pure functions of their inputs plus that
// configuration, so a single instance is safe for concurrent use.
type TokenService struct {
	signingKey    []byte
	signingMethod jwt.SigningMethod
	defaultTTL    time.Duration
	issuer        string
	audience      jwt.ClaimStrings
	logger        Logger
	now           func() time.Time
}

type TokenServiceOption func(*TokenService)

// WithTokenLogger overrides the service logger.
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// WithTimeFunc overrides the clock used for expiry computation and
// verification. Tests use this to step across the expiry boundary.
func WithTimeFunc(now func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, opts ...TokenServiceOption) *TokenService {
	method := jwt.GetSigningMethod(cfg.GetSigningMethod())
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		// No algorithm negotiation: anything but an HMAC method is a
		// configuration mistake, fall back to HS256.
		method = jwt.SigningMethodHS256
	}

	ts := &TokenService{
		signingKey:    []byte(cfg.GetSigningKey()),
		signingMethod: method,
		defaultTTL:    time.Duration(cfg.GetTokenExpiration()) * time.Minute,
		issuer:        cfg.GetIssuer(),
		audience:      jwt.ClaimStrings(cfg.GetAudience()),
		logger:        defLogger{},
		now:           time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// CreateAccessToken signs the given claims with the configured key. The
// sub claim is coerced to its string form before signing because some
// verifying implementations reject non-string subjects. Expiry is
// computed as now (UTC) + ttl and serialized as integer epoch seconds;
// a non-positive ttl selects the configured default.
func (ts *TokenService) CreateAccessToken(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = ts.defaultTTL
	}

	now := ts.now().UTC()

	payload := make(jwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		payload[k] = v
	}

	if sub, ok := payload["sub"]; ok && sub != nil {
		payload["sub"] = subjectString(sub)
	}

	payload["exp"] = now.Add(ttl).Unix()
	payload["iat"] = now.Unix()

	if ts.issuer != "" {
		if _, ok := payload["iss"]; !ok {
			payload["iss"] = ts.issuer
		}
	}
	if len(ts.audience) > 0 {
		if _, ok := payload["aud"]; !ok {
			payload["aud"] = ts.audience
		}
	}

	token := jwt.NewWithClaims(ts.signingMethod, payload)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Generate issues an access token for a principal using the default
// TTL. The numeric id travels as the string sub claim.
func (ts *TokenService) Generate(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryInternal)
	}

	return ts.CreateAccessToken(map[string]any{
		"sub": user.ID,
		"jti": uuid.NewString(),
	}, 0)
}

// DefaultTTL reports the configured token lifetime.
func (ts *TokenService) DefaultTTL() time.Duration {
	return ts.defaultTTL
}

// VerifyAccessToken decodes and validates signature and expiry using
// the configured key and method. It either returns the full claim set
// or an error; there is no partial success.
func (ts *TokenService) VerifyAccessToken(tokenString string) (jwt.MapClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.signingMethod.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience[0]))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// subjectString renders a subject claim as a string. Integer ids keep
// their decimal form; floats avoid scientific notation so round-tripped
// JSON numbers stay stable.
func subjectString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
