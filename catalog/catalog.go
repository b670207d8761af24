package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/Carhuajulca/go-identity/repository"
)

// MaxPageSize caps list queries regardless of what the caller asks
// for.
const MaxPageSize = 100

// Products extends the generic contract with slug and SKU lookups.
type Products interface {
	repository.Repository[*Product]

	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	ListPage(ctx context.Context, skip, limit int) ([]*Product, error)
	ListByCategory(ctx context.Context, categoryID int64, skip, limit int) ([]*Product, error)
}

// Categories extends the generic contract with slug lookup.
type Categories interface {
	repository.Repository[*Category]

	GetBySlug(ctx context.Context, slug string) (*Category, error)
	ListPage(ctx context.Context, skip, limit int) ([]*Category, error)
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

type categories struct {
	repository.Repository[*Category]
	db *bun.DB
}

var (
	_ Products   = (*products)(nil)
	_ Categories = (*categories)(nil)
)

func NewProductsRepository(db *bun.DB) Products {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) int64 {
			if p == nil {
				return 0
			}
			return p.ID
		},
		SetID: func(p *Product, id int64) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &products{
		Repository: repo,
		db:         db,
	}
}

func NewCategoriesRepository(db *bun.DB) Categories {
	repo := repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) int64 {
			if c == nil {
				return 0
			}
			return c.ID
		},
		SetID: func(c *Category, id int64) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &categories{
		Repository: repo,
		db:         db,
	}
}

func (r *products) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	record := &Product{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", strings.TrimSpace(slug)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapLookupErr(err, "slug", slug)
	}
	return record, nil
}

func (r *products) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	record := &Product{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.sku = ?", strings.TrimSpace(sku)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapLookupErr(err, "sku", sku)
	}
	return record, nil
}

func (r *products) ListPage(ctx context.Context, skip, limit int) ([]*Product, error) {
	skip, limit = clampPage(skip, limit)
	return r.GetAll(ctx, repository.Paginate(skip, limit))
}

func (r *products) ListByCategory(ctx context.Context, categoryID int64, skip, limit int) ([]*Product, error) {
	skip, limit = clampPage(skip, limit)
	return r.GetAll(ctx,
		repository.Where("?TableAlias.category_id = ?", categoryID),
		repository.Paginate(skip, limit),
	)
}

func (r *categories) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	record := &Category{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", strings.TrimSpace(slug)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapLookupErr(err, "slug", slug)
	}
	return record, nil
}

func (r *categories) ListPage(ctx context.Context, skip, limit int) ([]*Category, error) {
	skip, limit = clampPage(skip, limit)
	return r.GetAll(ctx, repository.Paginate(skip, limit))
}

// clampPage normalizes pagination: negative offsets become zero, and
// requested page sizes are bounded by MaxPageSize.
func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}

func wrapLookupErr(err error, field, value string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{field: value})
	}
	return errors.Wrap(err, errors.CategoryInternal, "catalog lookup failed")
}

// Slugify renders a URL-safe slug from a display name. Consecutive
// separators collapse into one hyphen.
func Slugify(name string) string {
	var b strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
