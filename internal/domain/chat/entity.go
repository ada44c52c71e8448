package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Chat represents the chats table
type Chat struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"not null"`
	Model        string
	SystemPrompt sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message represents the messages table; rows are append-only within a chat.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Role       string    `gorm:"not null"`
	Content    string    `gorm:"not null"`
	Model      string
	TokenCount int
	CreatedAt  time.Time
}

func (Chat) TableName() string {
	return "chats"
}

func (Message) TableName() string {
	return "messages"
}
