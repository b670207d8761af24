package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the principal model. The auth core only ever reads it during
// resolution; status toggling and profile edits belong to the
// surrounding system.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	PublicID     uuid.UUID  `bun:"public_id,nullzero,type:uuid" json:"public_id,omitempty"`
	FirstName    string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName     string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email        string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string     `bun:"hashed_password" json:"-"`
	IsActive     bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	LastLoginAt  *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt    *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt    *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// FullName joins the profile name fields.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Identity returns the principal id in the form it travels inside
// tokens.
func (u *User) Identity() int64 {
	return u.ID
}
