package repository

import (
	"context"
	"testing"
	"time"

	"wavechat/internal/domain/chat"
	"wavechat/internal/domain/file"
	"wavechat/internal/domain/user"
	wave_errors "wavechat/pkg/errors"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &user.Session{},
		&chat.Chat{}, &chat.Message{},
		&file.Upload{},
	))
	return db
}

func TestUserRepository_NotFoundTranslation(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, wave_errors.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, wave_errors.ErrNotFound)
}

func TestUserRepository_SessionLifecycle(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	u := &user.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, u))

	s := &user.Session{
		ID:               uuid.New(),
		UserID:           u.ID,
		RefreshTokenHash: "hash",
		ExpiresAt:        time.Now().Add(time.Hour),
		CreatedAt:        time.Now(),
	}
	require.NoError(t, repo.CreateSession(ctx, s))

	loaded, err := repo.GetSessionByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsRevoked)

	require.NoError(t, repo.RevokeSession(ctx, s.ID))
	loaded, err = repo.GetSessionByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsRevoked)
}

func TestChatRepository_ListByOwnerPagination(t *testing.T) {
	repo := NewChatRepository(openTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 5; i++ {
		c := &chat.Chat{
			ID:        uuid.New(),
			OwnerID:   owner,
			Title:     "chat",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
			UpdatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, c))
	}

	page, total, err := repo.ListByOwner(ctx, owner, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	_, total, err = repo.ListByOwner(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMessageRepository_OwnerAggregates(t *testing.T) {
	db := openTestDB(t)
	chatRepo := NewChatRepository(db)
	msgRepo := NewMessageRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	c := &chat.Chat{ID: uuid.New(), OwnerID: owner, Title: "t", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, chatRepo.Create(ctx, c))

	foreign := &chat.Chat{ID: uuid.New(), OwnerID: uuid.New(), Title: "f", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, chatRepo.Create(ctx, foreign))

	for i, tokens := range []int{3, 4} {
		m := &chat.Message{
			ID: uuid.New(), ChatID: c.ID, Role: "user",
			Content: "m", TokenCount: tokens,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, msgRepo.Create(ctx, m))
	}
	require.NoError(t, msgRepo.Create(ctx, &chat.Message{
		ID: uuid.New(), ChatID: foreign.ID, Role: "user", Content: "x", TokenCount: 100, CreatedAt: time.Now(),
	}))

	count, err := msgRepo.CountByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	tokens, err := msgRepo.SumTokensByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(7), tokens)
}

func TestFileRepository_CountByStatus(t *testing.T) {
	repo := NewFileRepository(openTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	for _, status := range []string{file.StatusPending, file.StatusCompleted, file.StatusCompleted} {
		f := &file.Upload{
			ID:               uuid.New(),
			OwnerID:          owner,
			FileName:         "f",
			SizeBytes:        10,
			ProcessingStatus: status,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		require.NoError(t, repo.Create(ctx, f))
	}

	byStatus, err := repo.CountByStatus(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStatus[file.StatusPending])
	assert.Equal(t, int64(2), byStatus[file.StatusCompleted])

	size, err := repo.SumSizeByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(30), size)
}
