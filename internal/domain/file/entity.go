package file

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Processing status lifecycle, set by an external asynchronous step.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Upload represents the file_uploads table
type Upload struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID    `gorm:"type:uuid;not null;index"`
	ChatID           uuid.NullUUID `gorm:"type:uuid;index"`
	FileName         string       `gorm:"not null"`
	FileType         string
	MimeType         string
	SizeBytes        int64
	Bucket           string
	ObjectKey        string
	ProcessingStatus string `gorm:"default:'pending'"`
	ExtractedText    sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Upload) TableName() string {
	return "file_uploads"
}
