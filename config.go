package auth

// Default values applied by SimpleConfig when a field is left zero.
const (
	// DefaultTokenExpiration is the default access token TTL in minutes.
	DefaultTokenExpiration = 30
	// DefaultHashCost is the bcrypt work factor. Tune it here as hardware
	// improves; call sites never pass a cost directly.
	DefaultHashCost = 12

	DefaultSigningMethod = "HS256"
	DefaultContextKey    = "user"
	DefaultAuthScheme    = "Bearer"
)

// SimpleConfig is a plain value implementation of Config. Build one at
// startup and inject it into the constructors; nothing in this package
// reads process-wide state.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
	HashCost        int
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return DefaultSigningMethod
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

// GetTokenExpiration returns the default token TTL in minutes.
func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetAudience() []string { return c.Audience }

func (c *SimpleConfig) GetHashCost() int {
	if c.HashCost <= 0 {
		return DefaultHashCost
	}
	return c.HashCost
}
