package persistence

import (
	"context"
	"testing"

	"github.com/chantier/backend/internal/domain/catalog"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArticle(t *testing.T, code, label string, price string) *catalog.Article {
	t.Helper()

	money, err := valueobject.NewMoneyEURFromString(price)
	require.NoError(t, err)

	article, err := catalog.NewArticle(code, label, "m2", money, "gros_oeuvre")
	require.NoError(t, err)
	article.ClearDomainEvents()

	return article
}

func TestGormArticleRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormArticleRepository(db)
	ctx := context.Background()

	article := newTestArticle(t, "BET-C25", "Béton C25/30", "128.50")
	require.NoError(t, repo.Save(ctx, article))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, "BET-C25", found.Code)
		assert.True(t, found.UnitPrice.Equal(article.UnitPrice))
		assert.True(t, found.Active)
	})

	t.Run("finds by code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "BET-C25")
		require.NoError(t, err)
		assert.Equal(t, article.ID, found.ID)
	})

	t.Run("not found maps to domain error", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by code", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "BET-C25")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormArticleRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormArticleRepository(db)
	ctx := context.Background()

	concrete := newTestArticle(t, "BET-C25", "Béton C25/30", "128.50")
	tiles := newTestArticle(t, "TUI-ARD", "Tuile ardoise", "42.00")
	retired := newTestArticle(t, "OLD-001", "Ancien mortier", "10.00")
	require.NoError(t, retired.SoftDelete(uuid.New()))
	retired.ClearDomainEvents()

	for _, a := range []*catalog.Article{concrete, tiles, retired} {
		require.NoError(t, repo.Save(ctx, a))
	}

	t.Run("lists everything ordered by code", func(t *testing.T) {
		articles, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, articles, 3)
		assert.Equal(t, "BET-C25", articles[0].Code)
		assert.Equal(t, "TUI-ARD", articles[2].Code)
	})

	t.Run("filters on active flag", func(t *testing.T) {
		filter := shared.Filter{Filters: map[string]interface{}{"active": true}}
		articles, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, articles, 2)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("searches code and label case-insensitively", func(t *testing.T) {
		articles, err := repo.FindAll(ctx, shared.Filter{Search: "béton"})
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "BET-C25", articles[0].Code)
	})

	t.Run("paginates", func(t *testing.T) {
		articles, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, articles, 1)
	})
}
