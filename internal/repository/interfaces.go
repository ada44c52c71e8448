package repository

import (
	"context"
	"time"

	"wavechat/internal/domain/apikey"
	"wavechat/internal/domain/chat"
	"wavechat/internal/domain/file"
	"wavechat/internal/domain/output"
	"wavechat/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, u user.User) error
	CreateSession(ctx context.Context, s *user.Session) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (user.Session, error)
	UpdateSession(ctx context.Context, s user.Session) error
	RevokeSession(ctx context.Context, id uuid.UUID) error
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error
}

type ChatRepository interface {
	Create(ctx context.Context, c *chat.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (chat.Chat, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]chat.Chat, int64, error)
	Update(ctx context.Context, c chat.Chat) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *chat.Message) error
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]chat.Message, error)
	CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	SumTokensByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type FileRepository interface {
	Create(ctx context.Context, f *file.Upload) error
	GetByID(ctx context.Context, id uuid.UUID) (file.Upload, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]file.Upload, int64, error)
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]file.Upload, error)
	Update(ctx context.Context, f file.Upload) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error)
	SumSizeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type OutputRepository interface {
	Create(ctx context.Context, o *output.StructuredOutput) error
	GetByID(ctx context.Context, id uuid.UUID) (output.StructuredOutput, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]output.StructuredOutput, error)
	Update(ctx context.Context, o output.StructuredOutput) error
	CreateVersion(ctx context.Context, v *output.Version) error
	GetVersion(ctx context.Context, outputID uuid.UUID, version int) (output.Version, error)
	ListVersions(ctx context.Context, outputID uuid.UUID) ([]output.Version, error)
}

type APIKeyRepository interface {
	Create(ctx context.Context, k *apikey.APIKey) error
	GetByHash(ctx context.Context, keyHash string) (apikey.APIKey, error)
	Revoke(ctx context.Context, id, userID uuid.UUID) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
	CreateUsageRecord(ctx context.Context, r *apikey.UsageRecord) error
	CreateActivityRecord(ctx context.Context, r *apikey.ActivityRecord) error
	ListUsage(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]apikey.UsageRecord, int64, error)
	ListActivity(ctx context.Context, userID uuid.UUID, limit, offset int) ([]apikey.ActivityRecord, int64, error)
}
