package services

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"wavechat/internal/domain/file"
	"wavechat/internal/repository"
	"wavechat/internal/storage"
	wave_errors "wavechat/pkg/errors"
	"wavechat/pkg/logger"

	"github.com/google/uuid"
)

const maxUploadBytes = 50 << 20

type FileService struct {
	repo    repository.FileRepository
	storage *storage.Client
	logger  *logger.Logger
}

func NewFileService(repo repository.FileRepository, storage *storage.Client, l *logger.Logger) *FileService {
	return &FileService{repo: repo, storage: storage, logger: l}
}

type UploadInput struct {
	OwnerID     uuid.UUID
	ChatID      uuid.NullUUID
	FileName    string
	ContentType string
	SizeBytes   int64
	Bucket      string
	Path        string
	Body        io.Reader
}

// FileStats aggregates counts by processing status plus storage totals.
type FileStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	TotalBytes int64            `json:"total_bytes"`
}

func (s *FileService) Upload(ctx context.Context, in UploadInput) (file.Upload, error) {
	if in.OwnerID == uuid.Nil || in.FileName == "" || in.Body == nil {
		return file.Upload{}, wave_errors.ErrInvalidInput
	}
	if in.SizeBytes > maxUploadBytes {
		return file.Upload{}, wave_errors.ErrTooLarge
	}

	f := file.Upload{
		ID:               uuid.New(),
		OwnerID:          in.OwnerID,
		ChatID:           in.ChatID,
		FileName:         in.FileName,
		FileType:         fileType(in.FileName),
		MimeType:         in.ContentType,
		SizeBytes:        in.SizeBytes,
		Bucket:           in.Bucket,
		ProcessingStatus: file.StatusPending,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	f.ObjectKey = buildObjectKey(in.Path, f)

	if s.storage != nil {
		if err := s.storage.PutObject(ctx, in.Bucket, f.ObjectKey, in.ContentType, in.Body); err != nil {
			return file.Upload{}, err
		}
	}

	if err := s.repo.Create(ctx, &f); err != nil {
		return file.Upload{}, err
	}
	return f, nil
}

// GetOwned enforces the same not-found-over-forbidden policy as chats.
func (s *FileService) GetOwned(ctx context.Context, fileID, ownerID uuid.UUID) (file.Upload, error) {
	f, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return file.Upload{}, err
	}
	if f.OwnerID != ownerID {
		return file.Upload{}, wave_errors.ErrNotFound
	}
	return f, nil
}

func (s *FileService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]file.Upload, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Delete removes the row and then the object; the object delete is
// best-effort because the row is already gone.
func (s *FileService) Delete(ctx context.Context, fileID, ownerID uuid.UUID) error {
	f, err := s.GetOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, fileID); err != nil {
		return err
	}

	if s.storage != nil && f.ObjectKey != "" {
		if err := s.storage.DeleteObject(ctx, f.Bucket, f.ObjectKey); err != nil && s.logger != nil {
			s.logger.Warnf("failed to delete object %s: %s", f.ObjectKey, err)
		}
	}
	return nil
}

// Stats covers everything the user owns regardless of any page the
// caller happens to be viewing.
func (s *FileService) Stats(ctx context.Context, ownerID uuid.UUID) (FileStats, error) {
	byStatus, err := s.repo.CountByStatus(ctx, ownerID)
	if err != nil {
		return FileStats{}, err
	}

	totalBytes, err := s.repo.SumSizeByOwner(ctx, ownerID)
	if err != nil {
		return FileStats{}, err
	}

	stats := FileStats{ByStatus: byStatus, TotalBytes: totalBytes}
	for _, n := range byStatus {
		stats.Total += n
	}
	return stats, nil
}

// ExtractText returns the text produced by the external processing step.
// Files that have not completed processing have nothing to extract yet.
func (s *FileService) ExtractText(ctx context.Context, fileID, ownerID uuid.UUID) (string, error) {
	f, err := s.GetOwned(ctx, fileID, ownerID)
	if err != nil {
		return "", err
	}
	if f.ProcessingStatus != file.StatusCompleted || !f.ExtractedText.Valid {
		return "", wave_errors.ErrInvalidInput
	}
	return f.ExtractedText.String, nil
}

func buildObjectKey(prefix string, f file.Upload) string {
	ext := strings.ToLower(path.Ext(f.FileName))
	base := f.OwnerID.String() + "/" + f.ID.String() + ext
	if prefix == "" {
		return base
	}
	return strings.Trim(prefix, "/") + "/" + base
}

func fileType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return "image"
	case ".pdf":
		return "pdf"
	case ".md", ".txt", ".csv", ".json":
		return "text"
	default:
		return "other"
	}
}
