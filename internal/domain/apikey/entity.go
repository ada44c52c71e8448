package apikey

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scopes granted to an API credential, checked per endpoint.
const (
	ScopeRead   = "read"
	ScopeWrite  = "write"
	ScopeDelete = "delete"
)

// APIKey represents the api_keys table. The raw key is never stored;
// only its SHA-256 hash.
type APIKey struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string
	KeyHash    string `gorm:"uniqueIndex;not null"`
	Scopes     string `gorm:"not null"`
	IsRevoked  bool   `gorm:"default:false"`
	LastUsedAt sql.NullTime
	CreatedAt  time.Time
}

// HasScope reports whether the comma-separated scope set grants scope.
func (k APIKey) HasScope(scope string) bool {
	for _, s := range strings.Split(k.Scopes, ",") {
		if strings.TrimSpace(s) == scope {
			return true
		}
	}
	return false
}

// UsageRecord represents api_usage_records; append-only audit rows,
// written best-effort on every tracked API call.
type UsageRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	APIKeyID   uuid.UUID `gorm:"type:uuid;index"`
	UserID     uuid.UUID `gorm:"type:uuid;index"`
	Endpoint   string
	Method     string
	StatusCode int
	CreatedAt  time.Time `gorm:"index"`
}

// ActivityRecord represents activity_records, the user-facing audit trail.
type ActivityRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index"`
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     string
	CreatedAt    time.Time `gorm:"index"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

func (UsageRecord) TableName() string {
	return "api_usage_records"
}

func (ActivityRecord) TableName() string {
	return "activity_records"
}
