package repository

import (
	"context"
	"errors"
	"time"

	"wavechat/internal/domain/output"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresOutputRepository struct {
	db *gorm.DB
}

func NewOutputRepository(db *gorm.DB) OutputRepository {
	return &PostgresOutputRepository{db: db}
}

func (r *PostgresOutputRepository) Create(ctx context.Context, o *output.StructuredOutput) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *PostgresOutputRepository) GetByID(ctx context.Context, id uuid.UUID) (output.StructuredOutput, error) {
	var o output.StructuredOutput
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return output.StructuredOutput{}, wave_errors.ErrNotFound
		}
		return output.StructuredOutput{}, err
	}
	return o, nil
}

func (r *PostgresOutputRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]output.StructuredOutput, error) {
	var outputs []output.StructuredOutput
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&outputs).Error
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

func (r *PostgresOutputRepository) Update(ctx context.Context, o output.StructuredOutput) error {
	o.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Save(&o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wave_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresOutputRepository) CreateVersion(ctx context.Context, v *output.Version) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *PostgresOutputRepository) GetVersion(ctx context.Context, outputID uuid.UUID, version int) (output.Version, error) {
	var v output.Version
	err := r.db.WithContext(ctx).
		Where("output_id = ? AND version = ?", outputID, version).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return output.Version{}, wave_errors.ErrNotFound
		}
		return output.Version{}, err
	}
	return v, nil
}

func (r *PostgresOutputRepository) ListVersions(ctx context.Context, outputID uuid.UUID) ([]output.Version, error) {
	var versions []output.Version
	err := r.db.WithContext(ctx).
		Where("output_id = ?", outputID).
		Order("version ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}
