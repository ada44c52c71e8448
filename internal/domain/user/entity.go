package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents the users table
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHash   string    `gorm:"not null"`
	DisplayName    sql.NullString
	EmailConfirmed bool `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session represents refresh sessions. Access tokens are stateless JWTs;
// a session row backs the refresh token and can be revoked.
type Session struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	RefreshTokenHash string    `gorm:"not null"`
	ExpiresAt        time.Time `gorm:"not null"`
	IsRevoked        bool      `gorm:"default:false"`
	CreatedAt        time.Time
}

func (User) TableName() string {
	return "users"
}

func (Session) TableName() string {
	return "user_sessions"
}
