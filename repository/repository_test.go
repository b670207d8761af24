package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/Carhuajulca/go-identity/repository"
)

type Item struct {
	bun.BaseModel `bun:"table:items,alias:itm"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull,unique"`
	Count int    `bun:"count,default:0"`
}

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the
	// whole test.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.ResetModel(context.Background(), (*Item)(nil)))

	return db
}

func itemsRepo(db *bun.DB) repository.Repository[*Item] {
	return repository.NewRepository[*Item](db, repository.ModelHandlers[*Item]{
		NewRecord: func() *Item { return &Item{} },
		GetID: func(i *Item) int64 {
			if i == nil {
				return 0
			}
			return i.ID
		},
		SetID: func(i *Item, id int64) {
			if i != nil {
				i.ID = id
			}
		},
	})
}

func TestRepository_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	created, err := repo.Create(ctx, &Item{Name: "first"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	second, err := repo.Create(ctx, &Item{Name: "second"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, created.ID)
}

func TestRepository_CreateUniqueViolation(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	_, err := repo.Create(ctx, &Item{Name: "dup"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &Item{Name: "dup"})
	require.Error(t, err)
	assert.True(t, repository.IsConstraintViolation(err))
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	created, err := repo.Create(ctx, &Item{Name: "findable", Count: 3})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "findable", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	_, err := repo.GetByID(ctx, 999)
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := repo.Create(ctx, &Item{Name: name})
		require.NoError(t, err)
	}

	t.Run("returns everything in id order", func(t *testing.T) {
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "a", all[0].Name)
		assert.Equal(t, "d", all[3].Name)
	})

	t.Run("pagination criteria", func(t *testing.T) {
		page, err := repo.GetAll(ctx, repository.Paginate(1, 2))
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "b", page[0].Name)
		assert.Equal(t, "c", page[1].Name)
	})

	t.Run("where criteria", func(t *testing.T) {
		got, err := repo.GetAll(ctx, repository.Where("name = ?", "c"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].Name)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		got, err := repo.GetAll(ctx, repository.Where("name = ?", "zzz"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	created, err := repo.Create(ctx, &Item{Name: "before", Count: 1})
	require.NoError(t, err)

	t.Run("merges only the given fields", func(t *testing.T) {
		updated, err := repo.Update(ctx, created.ID, map[string]any{"count": 5})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Count)
		assert.Equal(t, "before", updated.Name)
	})

	t.Run("empty field map is a read", func(t *testing.T) {
		got, err := repo.Update(ctx, created.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.Update(ctx, 999, map[string]any{"count": 1})
		require.Error(t, err)
		assert.True(t, repository.IsRecordNotFound(err))
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := itemsRepo(setupDB(t))

	created, err := repo.Create(ctx, &Item{Name: "doomed"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, created.ID)
	assert.True(t, repository.IsRecordNotFound(err))

	// Deleting again reports false without an error.
	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
