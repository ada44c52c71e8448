package repository

import (
	"context"
	"errors"
	"time"

	"wavechat/internal/domain/file"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresFileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &PostgresFileRepository{db: db}
}

func (r *PostgresFileRepository) Create(ctx context.Context, f *file.Upload) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *PostgresFileRepository) GetByID(ctx context.Context, id uuid.UUID) (file.Upload, error) {
	var f file.Upload
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return file.Upload{}, wave_errors.ErrNotFound
		}
		return file.Upload{}, err
	}
	return f, nil
}

func (r *PostgresFileRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]file.Upload, int64, error) {
	var files []file.Upload
	var total int64

	q := r.db.WithContext(ctx).Model(&file.Upload{}).Where("owner_id = ?", ownerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&files).Error; err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

func (r *PostgresFileRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]file.Upload, error) {
	var files []file.Upload
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresFileRepository) Update(ctx context.Context, f file.Upload) error {
	f.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Save(&f)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wave_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&file.Upload{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wave_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresFileRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error) {
	type row struct {
		ProcessingStatus string
		Total            int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&file.Upload{}).
		Where("owner_id = ?", ownerID).
		Select("processing_status, COUNT(*) AS total").
		Group("processing_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ProcessingStatus] = r.Total
	}
	return counts, nil
}

func (r *PostgresFileRepository) SumSizeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&file.Upload{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&sum).Error
	return sum, err
}
