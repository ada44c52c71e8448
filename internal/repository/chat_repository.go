package repository

import (
	"context"
	"errors"
	"time"

	"wavechat/internal/domain/chat"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *PostgresChatRepository) GetByID(ctx context.Context, id uuid.UUID) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Chat{}, wave_errors.ErrNotFound
		}
		return chat.Chat{}, err
	}
	return c, nil
}

func (r *PostgresChatRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]chat.Chat, int64, error) {
	var chats []chat.Chat
	var total int64

	q := r.db.WithContext(ctx).Model(&chat.Chat{}).Where("owner_id = ?", ownerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&chats).Error; err != nil {
		return nil, 0, err
	}

	return chats, total, nil
}

func (r *PostgresChatRepository) Update(ctx context.Context, c chat.Chat) error {
	c.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Save(&c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wave_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&chat.Chat{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wave_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresChatRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&chat.Chat{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}
