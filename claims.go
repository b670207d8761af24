package auth

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is a read-only view over a verified claim set.
type AccessClaims jwt.MapClaims

// Subject returns the sub claim. Subjects are always strings on the
// wire; anything else reports absent.
func (c AccessClaims) Subject() (string, bool) {
	raw, ok := c["sub"]
	if !ok || raw == nil {
		return "", false
	}
	sub, ok := raw.(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}

// SubjectID parses the sub claim as the numeric principal id.
func (c AccessClaims) SubjectID() (int64, bool) {
	sub, ok := c.Subject()
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Expiry returns the exp claim as a time, or the zero time when absent.
func (c AccessClaims) Expiry() time.Time {
	switch exp := c["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0)
	case int64:
		return time.Unix(exp, 0)
	case json.Number:
		if n, err := exp.Int64(); err == nil {
			return time.Unix(n, 0)
		}
	}
	return time.Time{}
}

// Get returns an arbitrary passthrough claim.
func (c AccessClaims) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}
