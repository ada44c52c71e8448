package output

import (
	"time"

	"github.com/google/uuid"
)

// StructuredOutput represents the structured_outputs table
type StructuredOutput struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"not null"`
	Schema         string    `gorm:"type:jsonb"`
	CurrentVersion int       `gorm:"default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Version represents structured_output_versions; appended on every write,
// including restores, which carry a change summary naming the source version.
type Version struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OutputID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Version       int       `gorm:"not null"`
	Document      string    `gorm:"type:jsonb"`
	ChangeSummary string
	CreatedAt     time.Time
}

func (StructuredOutput) TableName() string {
	return "structured_outputs"
}

func (Version) TableName() string {
	return "structured_output_versions"
}
