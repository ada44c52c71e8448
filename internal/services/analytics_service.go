package services

import (
	"context"
	"time"

	"wavechat/internal/domain/apikey"
	"wavechat/internal/repository"
	"wavechat/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type AnalyticsService struct {
	chatRepo   repository.ChatRepository
	msgRepo    repository.MessageRepository
	fileRepo   repository.FileRepository
	apiKeyRepo repository.APIKeyRepository
	logger     *logger.Logger
}

func NewAnalyticsService(
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	fileRepo repository.FileRepository,
	apiKeyRepo repository.APIKeyRepository,
	l *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		chatRepo:   chatRepo,
		msgRepo:    msgRepo,
		fileRepo:   fileRepo,
		apiKeyRepo: apiKeyRepo,
		logger:     l,
	}
}

type DashboardStats struct {
	ChatCount    int64 `json:"chat_count"`
	MessageCount int64 `json:"message_count"`
	FileCount    int64 `json:"file_count"`
	TokenTotal   int64 `json:"token_total"`
	StorageBytes int64 `json:"storage_bytes"`
}

type StorageStats struct {
	TotalBytes int64            `json:"total_bytes"`
	FileCount  int64            `json:"file_count"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// Dashboard issues its independent counts concurrently and joins them.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID uuid.UUID) (DashboardStats, error) {
	var stats DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.chatRepo.CountByOwner(gctx, userID)
		stats.ChatCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.msgRepo.CountByOwner(gctx, userID)
		stats.MessageCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.msgRepo.SumTokensByOwner(gctx, userID)
		stats.TokenTotal = n
		return err
	})
	g.Go(func() error {
		byStatus, err := s.fileRepo.CountByStatus(gctx, userID)
		if err != nil {
			return err
		}
		for _, n := range byStatus {
			stats.FileCount += n
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.fileRepo.SumSizeByOwner(gctx, userID)
		stats.StorageBytes = n
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

func (s *AnalyticsService) APIUsage(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]apikey.UsageRecord, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.apiKeyRepo.ListUsage(ctx, userID, from, to, limit, offset)
}

func (s *AnalyticsService) Storage(ctx context.Context, userID uuid.UUID) (StorageStats, error) {
	byStatus, err := s.fileRepo.CountByStatus(ctx, userID)
	if err != nil {
		return StorageStats{}, err
	}

	totalBytes, err := s.fileRepo.SumSizeByOwner(ctx, userID)
	if err != nil {
		return StorageStats{}, err
	}

	stats := StorageStats{TotalBytes: totalBytes, ByStatus: byStatus}
	for _, n := range byStatus {
		stats.FileCount += n
	}
	return stats, nil
}

func (s *AnalyticsService) Activity(ctx context.Context, userID uuid.UUID, limit, offset int) ([]apikey.ActivityRecord, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.apiKeyRepo.ListActivity(ctx, userID, limit, offset)
}

// TrackAPIUsage records an audit row. Tracking is best-effort: it never
// returns an error and must never affect the caller's response.
func (s *AnalyticsService) TrackAPIUsage(ctx context.Context, p Principal, endpoint, method string, statusCode int) {
	rec := apikey.UsageRecord{
		ID:         uuid.New(),
		UserID:     p.UserID,
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: statusCode,
		CreatedAt:  time.Now(),
	}
	if p.APIKeyID.Valid {
		rec.APIKeyID = p.APIKeyID.UUID
	}

	if err := s.apiKeyRepo.CreateUsageRecord(ctx, &rec); err != nil && s.logger != nil {
		s.logger.Warnf("api usage tracking failed: %s", err)
	}
}

// TrackActivity is the same best-effort contract for user activity rows.
func (s *AnalyticsService) TrackActivity(ctx context.Context, userID uuid.UUID, action, resourceType, resourceID, metadata string) {
	rec := apikey.ActivityRecord{
		ID:           uuid.New(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
		CreatedAt:    time.Now(),
	}

	if err := s.apiKeyRepo.CreateActivityRecord(ctx, &rec); err != nil && s.logger != nil {
		s.logger.Warnf("activity tracking failed: %s", err)
	}
}
