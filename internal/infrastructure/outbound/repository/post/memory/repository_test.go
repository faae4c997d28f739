package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstack-blog-service/internal/custom_errors"
	model "pinstack-blog-service/internal/domain/models"
	"pinstack-blog-service/internal/infrastructure/logger"
	"pinstack-blog-service/internal/infrastructure/outbound/repository/post/memory"
)

func setupPostTest(t *testing.T) (*memory.PostRepository, *memory.UnitOfWork) {
	log := logger.New("test")
	repo := memory.NewPostRepository(log)
	return repo, memory.NewUnitOfWork(repo, log)
}

func strPtr(s string) *string { return &s }

func TestPostRepository_Create(t *testing.T) {
	repo, _ := setupPostTest(t)

	got, err := repo.Create(context.Background(), &model.Post{
		Text:      "This is a sample post text.",
		Username:  "valid_user",
		ImagePath: strPtr("abc.png"),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID.String())
	assert.Equal(t, "valid_user", got.Username)
	assert.Equal(t, "abc.png", *got.ImagePath)
	assert.Nil(t, got.UserAvatarPath)
	assert.True(t, got.PublishedAt.Valid)
}

func TestPostRepository_ListOrdersNewestFirst(t *testing.T) {
	repo, _ := setupPostTest(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, &model.Post{Text: "first post text", Username: "alice"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := repo.Create(ctx, &model.Post{Text: "second post text", Username: "bob"})
	require.NoError(t, err)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestUnitOfWork_CommitMakesPostVisible(t *testing.T) {
	repo, uow := setupPostTest(t)
	ctx := context.Background()

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.PostRepository().Create(ctx, &model.Post{Text: "pending post text", Username: "alice"})
	require.NoError(t, err)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.NoError(t, tx.Commit(ctx))

	posts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	repo, uow := setupPostTest(t)
	ctx := context.Background()

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.PostRepository().Create(ctx, &model.Post{Text: "discarded post", Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	assert.ErrorIs(t, tx.Commit(ctx), custom_errors.ErrDatabase)
	assert.ErrorIs(t, tx.Rollback(ctx), memory.ErrTxClosed)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestUnitOfWork_SimulatedFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("commit error", func(t *testing.T) {
		repo, uow := setupPostTest(t)
		uow.SimulateCommitError(errors.New("connection reset"))

		tx, err := uow.Begin(ctx)
		require.NoError(t, err)
		_, err = tx.PostRepository().Create(ctx, &model.Post{Text: "never committed", Username: "alice"})
		require.NoError(t, err)

		assert.ErrorIs(t, tx.Commit(ctx), custom_errors.ErrDatabase)
		posts, _ := repo.List(ctx)
		assert.Empty(t, posts)
	})

	t.Run("insert error", func(t *testing.T) {
		_, uow := setupPostTest(t)
		uow.SimulateInsertError(errors.New("unique violation"))

		tx, err := uow.Begin(ctx)
		require.NoError(t, err)
		_, err = tx.PostRepository().Create(ctx, &model.Post{Text: "never inserted", Username: "alice"})
		assert.ErrorIs(t, err, custom_errors.ErrDatabase)
	})
}
