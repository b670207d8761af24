// Package repository defines the generic storage contract every entity
// type implements, plus a Bun-backed implementation keyed by int64
// primary keys. The contract deliberately knows nothing about the
// domains built on top of it: lookups return absent rather than
// raising, and updates merge only the provided fields.
package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Repository is the generic contract. One instantiation exists per
// entity type; the auth core depends on the users instantiation for
// principal lookup.
type Repository[T any] interface {
	// Create persists the record, assigns its identity, and fails with
	// a constraint-violation error on uniqueness conflicts.
	Create(ctx context.Context, record T) (T, error)
	// GetByID returns the record or a record-not-found error.
	GetByID(ctx context.Context, id int64) (T, error)
	// GetAll returns records in primary-key order unless criteria say
	// otherwise. Offset/limit clamping is the caller's concern.
	GetAll(ctx context.Context, criteria ...SelectCriteria) ([]T, error)
	// Update merges only the provided fields into the stored record and
	// returns the updated entity, or record-not-found.
	Update(ctx context.Context, id int64, fields map[string]any) (T, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// ModelHandlers wires a concrete model into the generic implementation.
type ModelHandlers[T any] struct {
	NewRecord func() T
	GetID     func(T) int64
	SetID     func(T, int64)
}

type repo[T any] struct {
	db       bun.IDB
	handlers ModelHandlers[T]
}

// NewRepository builds the Bun-backed implementation of the contract.
func NewRepository[T any](db bun.IDB, handlers ModelHandlers[T]) Repository[T] {
	return &repo[T]{db: db, handlers: handlers}
}

func (r *repo[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T

	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return zero, NewConstraintViolation(err)
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "insert failed")
	}

	return record, nil
}

func (r *repo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	record := r.handlers.NewRecord()

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, NewRecordNotFound().WithMetadata(map[string]any{"id": id})
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "select failed")
	}

	return record, nil
}

func (r *repo[T]) GetAll(ctx context.Context, criteria ...SelectCriteria) ([]T, error) {
	records := []T{}

	q := r.db.NewSelect().Model(&records)
	for _, c := range criteria {
		if c != nil {
			q = q.Apply(c)
		}
	}

	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "select failed")
	}

	return records, nil
}

func (r *repo[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	record := r.handlers.NewRecord()
	q := r.db.NewUpdate().
		Model(record).
		Where("?TableAlias.id = ?", id)

	// Deterministic SET order keeps generated SQL stable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q = q.Set("? = ?", bun.Ident(k), fields[k])
	}

	res, err := q.Exec(ctx)
	if err != nil {
		var zero T
		if isUniqueViolation(err) {
			return zero, NewConstraintViolation(err)
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "update failed")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var zero T
		return zero, NewRecordNotFound().WithMetadata(map[string]any{"id": id})
	}

	return r.GetByID(ctx, id)
}

func (r *repo[T]) Delete(ctx context.Context, id int64) (bool, error) {
	record := r.handlers.NewRecord()

	res, err := r.db.NewDelete().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "delete failed")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "delete failed")
	}

	return affected > 0, nil
}
