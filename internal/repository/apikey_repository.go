package repository

import (
	"context"
	"errors"
	"time"

	"wavechat/internal/domain/apikey"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresAPIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &PostgresAPIKeyRepository{db: db}
}

func (r *PostgresAPIKeyRepository) Create(ctx context.Context, k *apikey.APIKey) error {
	res := r.db.WithContext(ctx).Create(k)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return wave_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresAPIKeyRepository) GetByHash(ctx context.Context, keyHash string) (apikey.APIKey, error) {
	var k apikey.APIKey
	err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&k).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apikey.APIKey{}, wave_errors.ErrNotFound
		}
		return apikey.APIKey{}, err
	}
	return k, nil
}

// Revoke marks the key revoked. Scoping the update to the owner means a
// foreign key id reads as not found.
func (r *PostgresAPIKeyRepository) Revoke(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&apikey.APIKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wave_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresAPIKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&apikey.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now()).Error
}

func (r *PostgresAPIKeyRepository) CreateUsageRecord(ctx context.Context, rec *apikey.UsageRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PostgresAPIKeyRepository) CreateActivityRecord(ctx context.Context, rec *apikey.ActivityRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PostgresAPIKeyRepository) ListUsage(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]apikey.UsageRecord, int64, error) {
	var records []apikey.UsageRecord
	var total int64

	q := r.db.WithContext(ctx).Model(&apikey.UsageRecord{}).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		// exclusive upper bound: callers pass midnight of the day after
		// an inclusive end date
		q = q.Where("created_at < ?", to)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *PostgresAPIKeyRepository) ListActivity(ctx context.Context, userID uuid.UUID, limit, offset int) ([]apikey.ActivityRecord, int64, error) {
	var records []apikey.ActivityRecord
	var total int64

	q := r.db.WithContext(ctx).Model(&apikey.ActivityRecord{}).Where("user_id = ?", userID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
