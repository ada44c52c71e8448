package repository

import (
	"context"

	"wavechat/internal/domain/chat"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresMessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]chat.Message, error) {
	var msgs []chat.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *PostgresMessageRepository) CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("chat_id = ?", chatID).
		Count(&total).Error
	return total, err
}

func (r *PostgresMessageRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("chats.owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}

func (r *PostgresMessageRepository) SumTokensByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("chats.owner_id = ?", ownerID).
		Select("COALESCE(SUM(messages.token_count), 0)").
		Scan(&sum).Error
	return sum, err
}
