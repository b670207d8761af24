package auth

import (
	"context"
	"database/sql"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Carhuajulca/go-identity/repository"
)

var trackLoginSQL = `UPDATE "users"
SET
	"last_login_at" = ?
WHERE
	"id" = ?;`

// Users is the principal instantiation of the generic repository
// contract, extended with the auth-specific lookups and bookkeeping
// the login chain needs.
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	SetPassword(ctx context.Context, id int64, passwordHash string) (*User, error)
	ToggleActive(ctx context.Context, id int64) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
	_ PrincipalStore               = (*users)(nil)
	_ LoginTracker                 = (*users)(nil)
)

// NewUsersRepository builds the users repository on the generic Bun
// implementation.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) int64 {
			if u == nil {
				return 0
			}
			return u.ID
		},
		SetID: func(u *User, id int64) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
	}

	return record, nil
}

// GetByIdentifier accepts either a numeric id or an email address.
func (a *users) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	trimmed := strings.TrimSpace(identifier)

	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return a.GetByID(ctx, id)
	}

	if isEmail(trimmed) {
		return a.GetByEmail(ctx, trimmed)
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"identifier": identifier})
}

// Register applies defaults and persists the user. Uniqueness conflicts
// on email bubble up as constraint violations for the caller to map.
func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Create(ctx, user)
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	if user == nil {
		return nil
	}

	loggedInAt := time.Now()
	_, err := a.db.NewRaw(trackLoginSQL, loggedInAt, user.ID).Exec(ctx)
	return err
}

func (a *users) SetPassword(ctx context.Context, id int64, passwordHash string) (*User, error) {
	return a.Update(ctx, id, map[string]any{
		"hashed_password": passwordHash,
	})
}

func (a *users) ToggleActive(ctx context.Context, id int64) (*User, error) {
	user, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return a.Update(ctx, id, map[string]any{
		"is_active": !user.IsActive,
	})
}

// ActiveOnly narrows user listings to active principals.
func ActiveOnly() repository.SelectCriteria {
	return repository.Where("?TableAlias.is_active = ?", true)
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = strings.TrimSpace(record.Email)

	// Stable public identifier derived from the email, so sequential
	// primary keys never leak through the API.
	if record.PublicID == uuid.Nil && record.Email != "" {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.PublicID = id
		}
	}
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
