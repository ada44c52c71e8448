package services

import (
	"testing"

	"wavechat/internal/domain/apikey"
	"wavechat/internal/domain/chat"
	"wavechat/internal/domain/file"
	"wavechat/internal/domain/output"
	"wavechat/internal/domain/user"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&user.User{},
		&user.Session{},
		&chat.Chat{},
		&chat.Message{},
		&file.Upload{},
		&output.StructuredOutput{},
		&output.Version{},
		&apikey.APIKey{},
		&apikey.UsageRecord{},
		&apikey.ActivityRecord{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}
